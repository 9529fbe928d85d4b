package api

import "time"

// SessionCreateRequest represents a request to assemble a source body
// once and keep the result as a new session.
type SessionCreateRequest struct {
	Filename string `json:"filename"` // Basename used for .ob/.ent/.ext naming
	Source   string `json:"source"`   // Assembly source code
}

// SessionCreateResponse represents the response from creating a session
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiagnosticInfo represents a single diagnostic (error or warning)
type DiagnosticInfo struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// SymbolInfo represents a resolved label/entry/extern
type SymbolInfo struct {
	Ident    string `json:"ident"`
	Address  int    `json:"address"`
	Category string `json:"category"`
}

// AssembleResponse represents the response from assembling a session's source
type AssembleResponse struct {
	SessionID   string           `json:"sessionId"`
	Succeeded   bool             `json:"succeeded"`
	Diagnostics []DiagnosticInfo `json:"diagnostics"`
	Labels      []SymbolInfo     `json:"labels,omitempty"`
	Entries     []SymbolInfo     `json:"entries,omitempty"`
	Externs     []SymbolInfo     `json:"externs,omitempty"`
	FinalIC     int              `json:"finalIc"`
	FinalDC     int              `json:"finalDc"`
}

// SessionStatusResponse represents the current status of a session
type SessionStatusResponse struct {
	SessionID string    `json:"sessionId"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
	Succeeded bool      `json:"succeeded"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
