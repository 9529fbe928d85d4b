package api

import (
	"fmt"
	"net/http"

	"github.com/tenbit/word10asm/internal/ast"
	"github.com/tenbit/word10asm/internal/diag"
)

// handleCreateSession handles POST /api/v1/session: assembles the
// submitted source under req.Filename and returns its diagnostics and
// resolved symbol table.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	session, err := s.sessions.CreateSession(req.Filename, req.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, toAssembleResponse(session))
}

// handleListSessions handles GET /api/v1/session
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()

	response := map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleGetSessionStatus handles GET /api/v1/session/{id}
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: session.ID,
		Filename:  session.Filename,
		CreatedAt: session.CreatedAt,
		Succeeded: !session.Context.Diags.Failed(),
	})
}

// handleDestroySession handles DELETE /api/v1/session/{id}
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// toAssembleResponse builds the JSON-facing view of a session's
// assembled Context: diagnostics plus the resolved label/entry/extern
// tables.
func toAssembleResponse(session *Session) AssembleResponse {
	ctx := session.Context
	resp := AssembleResponse{
		SessionID: session.ID,
		Succeeded: !ctx.Diags.Failed(),
		FinalIC:   ctx.FinalIC(),
		FinalDC:   ctx.FinalDC(),
	}

	for _, d := range ctx.Diags.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, DiagnosticInfo{
			Kind:    diagKindString(d.Kind),
			Line:    d.Line,
			Column:  d.Column,
			Message: d.Message,
		})
	}

	for _, l := range ctx.Table.Labels() {
		resp.Labels = append(resp.Labels, SymbolInfo{
			Ident:    l.Name,
			Address:  l.Address,
			Category: categoryString(l.Category),
		})
	}
	for _, e := range ctx.Entries {
		resp.Entries = append(resp.Entries, SymbolInfo{Ident: e.Ident, Address: e.Address})
	}
	for _, e := range ctx.Externs {
		resp.Externs = append(resp.Externs, SymbolInfo{Ident: e.Ident, Address: e.Address})
	}

	return resp
}

func diagKindString(k diag.Kind) string {
	switch k {
	case diag.KindLexical:
		return "lexical"
	case diag.KindSyntax:
		return "syntax"
	case diag.KindSemanticFirstPass:
		return "semantic_first_pass"
	case diag.KindSemanticSecondPass:
		return "semantic_second_pass"
	case diag.KindWarning:
		return "warning"
	case diag.KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

func categoryString(c ast.StatementCategory) string {
	if c == ast.CategoryData {
		return "data"
	}
	return "instruction"
}
