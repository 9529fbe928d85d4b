package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tenbit/word10asm/internal/assembler"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
)

// Session represents one watched source file: its assembler Context
// plus the bookkeeping needed to report its status back to a client.
type Session struct {
	ID        string
	Filename  string
	Context   *assembler.Context
	CreatedAt time.Time
}

// SessionManager manages multiple assembler sessions
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession assembles the given source under basename (writing
// "<basename>.ob/.ent/.ext" on success) and stores the resulting
// Context as a new session. Every diagnostic and the final symbol
// table are broadcast to any subscribed WebSocket client as the
// assembly completes.
func (sm *SessionManager) CreateSession(basename, source string) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	ctx := assembler.NewContext(basename + ".as")
	ctx.Assemble(strings.NewReader(source))
	if err := ctx.WriteOutputs(basename); err != nil {
		debugLog("session %s: failed writing outputs: %v", sessionID, err)
	}

	session := &Session{
		ID:        sessionID,
		Filename:  basename + ".as",
		Context:   ctx,
		CreatedAt: time.Now(),
	}

	if sm.broadcaster != nil {
		sm.broadcastAssemblyResult(sessionID, ctx)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[sessionID] = session
	return session, nil
}

// broadcastAssemblyResult sends every diagnostic as an individual
// event, then a single symbol-table snapshot, mirroring the teacher's
// state/output/execution event trio re-homed to this domain.
func (sm *SessionManager) broadcastAssemblyResult(sessionID string, ctx *assembler.Context) {
	for _, d := range ctx.Diags.Diagnostics {
		sm.broadcaster.BroadcastDiagnostic(sessionID, map[string]interface{}{
			"line":    d.Line,
			"column":  d.Column,
			"message": d.Message,
		})
	}

	labels := ctx.Table.Labels()
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	sm.broadcaster.BroadcastSymbols(sessionID, map[string]interface{}{
		"labels": names,
	})

	if !ctx.Diags.Failed() {
		base := strings.TrimSuffix(ctx.Filename, ".as")
		sm.broadcaster.BroadcastOutput(sessionID, []string{base + ".ob", base + ".ent", base + ".ext"})
	}
}

// GetSession retrieves a session by ID
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
