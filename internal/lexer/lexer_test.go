package lexer

import (
	"testing"

	"github.com/tenbit/word10asm/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestTokenizeLine_Instruction(t *testing.T) {
	toks, d := TokenizeLine("MAIN: mov #-1, r3", 1, "test.as")
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	want := []token.Kind{token.Identifier, token.Colon, token.OpMov, token.Hash, token.Number, token.Comma, token.Reg3, token.EOL}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeLine_Directive(t *testing.T) {
	toks, d := TokenizeLine("A: .data +5, -3, 0", 1, "test.as")
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	want := []token.Kind{
		token.Identifier, token.Colon, token.Dot, token.DirData,
		token.Number, token.Comma, token.Number, token.Comma, token.Number, token.EOL,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestTokenizeLine_WhitespaceBeforeDotIsFatal(t *testing.T) {
	_, d := TokenizeLine("foo .1", 1, "test.as")
	if d == nil {
		t.Fatal("expected a fatal diagnostic for whitespace between an identifier and '.'")
	}
}

func TestTokenizeLine_LabelColonDotSpacingIsFine(t *testing.T) {
	_, d := TokenizeLine("A: .data +5, -3, 0", 1, "test.as")
	if d != nil {
		t.Fatalf("space after ':' before a directive's '.' must not be fatal: %v", d)
	}
}

func TestTokenizeLine_UnterminatedString(t *testing.T) {
	_, d := TokenizeLine(`.string "abc`, 1, "test.as")
	if d == nil {
		t.Fatal("expected a fatal diagnostic for unterminated string")
	}
}

func TestTokenizeLine_SignMustPrecedeDigit(t *testing.T) {
	_, d := TokenizeLine("mov #-x, r1", 1, "test.as")
	if d == nil {
		t.Fatal("expected a fatal diagnostic: '-' not followed by a digit")
	}
}

func TestTokenizeLine_SignImmediatelyAfterHashIsFine(t *testing.T) {
	toks, d := TokenizeLine("mov #-1, r3", 1, "test.as")
	if d != nil {
		t.Fatalf("'#-1' is valid immediate syntax: %v", d)
	}
	if toks[2].Kind != token.Number || toks[2].Text != "-1" {
		t.Errorf("token[2] = %+v, want Number(-1)", toks[2])
	}
}

func TestTokenizeLine_SignGluedToIdentifierIsFatal(t *testing.T) {
	_, d := TokenizeLine("abc-5", 1, "test.as")
	if d == nil {
		t.Fatal("expected a fatal diagnostic: '-' glued to preceding identifier content")
	}
}

func TestTokenizeLine_RegisterRecognition(t *testing.T) {
	toks, d := TokenizeLine("r7", 1, "test.as")
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if toks[0].Kind != token.Reg7 {
		t.Errorf("kind = %v, want Reg7", toks[0].Kind)
	}
}
