package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/tenbit/word10asm/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("127.0.0.1:0", config.DefaultConfig())
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestHandleCreateSession_Success(t *testing.T) {
	s := newTestServer(t)
	reqBody, _ := json.Marshal(SessionCreateRequest{
		Filename: t.TempDir() + "/prog",
		Source:   "MAIN: mov #-1, r3\nstop\n",
	})
	req := httptest.NewRequest("POST", "/api/v1/session", bytes.NewReader(reqBody))
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != 201 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp AssembleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !resp.Succeeded {
		t.Errorf("expected success, diagnostics = %v", resp.Diagnostics)
	}
	if len(resp.Labels) != 1 || resp.Labels[0].Ident != "MAIN" {
		t.Errorf("Labels = %v, want [MAIN]", resp.Labels)
	}
}

func TestHandleCreateSession_MissingFilename(t *testing.T) {
	s := newTestServer(t)
	reqBody, _ := json.Marshal(SessionCreateRequest{Source: "stop\n"})
	req := httptest.NewRequest("POST", "/api/v1/session", bytes.NewReader(reqBody))
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	reqBody, _ := json.Marshal(SessionCreateRequest{
		Filename: t.TempDir() + "/prog",
		Source:   "stop\n",
	})
	createReq := httptest.NewRequest("POST", "/api/v1/session", bytes.NewReader(reqBody))
	createW := httptest.NewRecorder()
	s.Handler().ServeHTTP(createW, createReq)

	var created AssembleResponse
	if err := json.Unmarshal(createW.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	statusReq := httptest.NewRequest("GET", "/api/v1/session/"+created.SessionID, nil)
	statusW := httptest.NewRecorder()
	s.Handler().ServeHTTP(statusW, statusReq)
	if statusW.Code != 200 {
		t.Fatalf("status fetch = %d", statusW.Code)
	}

	delReq := httptest.NewRequest("DELETE", "/api/v1/session/"+created.SessionID, nil)
	delW := httptest.NewRecorder()
	s.Handler().ServeHTTP(delW, delReq)
	if delW.Code != 200 {
		t.Fatalf("delete = %d", delW.Code)
	}

	missingReq := httptest.NewRequest("GET", "/api/v1/session/"+created.SessionID, nil)
	missingW := httptest.NewRecorder()
	s.Handler().ServeHTTP(missingW, missingReq)
	if missingW.Code != 404 {
		t.Fatalf("expected 404 after destroy, got %d", missingW.Code)
	}
}

func TestHandleConfig(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/v1/config", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
}
