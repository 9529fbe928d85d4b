package stream

import (
	"testing"

	"github.com/tenbit/word10asm/internal/token"
)

func toks(kinds ...token.Kind) []token.Token {
	out := make([]token.Token, len(kinds))
	for i, k := range kinds {
		out[i] = token.Token{Kind: k}
	}
	return out
}

func TestAdvanceAndIsEOL(t *testing.T) {
	s := New(toks(token.Identifier, token.Colon, token.EOL))
	if s.IsEOL() {
		t.Fatal("should not be at EOL yet")
	}
	if s.Current().Kind != token.Identifier {
		t.Errorf("Current = %v, want Identifier", s.Current().Kind)
	}
	s.Advance()
	if s.Current().Kind != token.Colon {
		t.Errorf("Current = %v, want Colon", s.Current().Kind)
	}
	s.Advance()
	if !s.IsEOL() {
		t.Fatal("expected IsEOL after consuming all tokens")
	}
	s.Advance() // no-op past EOL
	if !s.IsEOL() {
		t.Fatal("Advance past EOL should remain at EOL")
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(toks(token.Identifier, token.Colon, token.Number, token.EOL))
	s.Advance()
	s.Save()
	s.Advance()
	s.Advance()
	if s.Current().Kind != token.EOL {
		t.Fatalf("expected EOL after two advances, got %v", s.Current().Kind)
	}
	s.Load()
	if s.Current().Kind != token.Colon {
		t.Errorf("Load should restore to Colon, got %v", s.Current().Kind)
	}
}

func TestPrevious(t *testing.T) {
	s := New(toks(token.Identifier, token.Colon))
	if s.Previous().Kind != token.Unknown {
		t.Errorf("Previous at head should be zero value, got %v", s.Previous().Kind)
	}
	s.Advance()
	if s.Previous().Kind != token.Identifier {
		t.Errorf("Previous = %v, want Identifier", s.Previous().Kind)
	}
}
