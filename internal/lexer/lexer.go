package lexer

import (
	"fmt"

	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/token"
)

// Lexer tokenizes a single line buffer into a Token sequence ending in
// token.EOL. It is a character-class state machine: next emits one
// token per call; TokenizeLine drives it to completion.
type Lexer struct {
	line string
	pos  int // byte offset of the next unread character

	sawToken bool       // a non-EOL token has already been emitted on this line
	adjacent bool       // the previous character was non-whitespace token content (no separating space)
	lastKind token.Kind // kind of the most recently emitted token
}

// NewLexer creates a lexer over one line of source text (no newline).
func NewLexer(line string) *Lexer {
	return &Lexer{line: line}
}

func (lx *Lexer) peek() byte {
	if lx.pos >= len(lx.line) {
		return 0
	}
	return lx.line[lx.pos]
}

func (lx *Lexer) peekAt(offset int) byte {
	i := lx.pos + offset
	if i < 0 || i >= len(lx.line) {
		return 0
	}
	return lx.line[i]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentTail(c byte) bool { return isLetter(c) || isDigit(c) }

// isMultiCharKind reports whether k is produced by the generic
// word/number/string scan (as opposed to a single self-terminating
// punctuation character). Only these kinds can carry a trailing space
// that was meant to abut a following '.' or ':' (e.g. a mistyped
// struct-field or label reference).
func isMultiCharKind(k token.Kind) bool {
	return k == token.Number || k == token.String || k == token.Identifier ||
		token.IsOperator(k) || token.IsRegister(k) || token.IsDirective(k)
}

// TokenizeLine lexes the entire line, returning the token sequence
// (always terminated by token.EOL) or a fatal lexical diagnostic.
func TokenizeLine(line string, lineNum int, filename string) ([]token.Token, *diag.Diagnostic) {
	lx := NewLexer(line)
	var out []token.Token
	for {
		tok, d := lx.next(lineNum, filename)
		if d != nil {
			return nil, d
		}
		out = append(out, tok)
		if tok.Kind == token.EOL {
			return out, nil
		}
	}
}

func fatal(lineNum int, filename string, col int, msg string) *diag.Diagnostic {
	return &diag.Diagnostic{Filename: filename, Line: lineNum, Column: col, Kind: diag.KindLexical, Message: msg}
}

// next emits the next single token, or a fatal diagnostic.
func (lx *Lexer) next(lineNum int, filename string) (token.Token, *diag.Diagnostic) {
	precededBySpace := lx.skipSpaces()

	if lx.pos >= len(lx.line) {
		return token.Token{Column: lx.pos + 1, Kind: token.EOL}, nil
	}

	col := lx.pos + 1
	c := lx.peek()

	switch c {
	case '.':
		if precededBySpace && lx.sawToken && isMultiCharKind(lx.lastKind) {
			return token.Token{}, fatal(lineNum, filename, col, "whitespace not permitted immediately before '.'")
		}
		lx.pos++
		if isSpace(lx.peek()) {
			return token.Token{}, fatal(lineNum, filename, col, "whitespace not permitted immediately after '.'")
		}
		return lx.emit(col, 1, token.Dot, "."), nil

	case ':':
		if precededBySpace && lx.sawToken && isMultiCharKind(lx.lastKind) {
			return token.Token{}, fatal(lineNum, filename, col, "whitespace not permitted immediately before ':'")
		}
		lx.pos++
		return lx.emit(col, 1, token.Colon, ":"), nil

	case '#':
		lx.pos++
		if isSpace(lx.peek()) {
			return token.Token{}, fatal(lineNum, filename, col, "whitespace not permitted immediately after '#'")
		}
		return lx.emit(col, 1, token.Hash, "#"), nil

	case ',':
		lx.pos++
		return lx.emit(col, 1, token.Comma, ","), nil

	case '"':
		return lx.lexString(lineNum, filename, col)

	case ';':
		return token.Token{}, fatal(lineNum, filename, col, "';' is only permitted to start a comment at the beginning of a line")

	case '+', '-':
		if lx.adjacent && isMultiCharKind(lx.lastKind) {
			return token.Token{}, fatal(lineNum, filename, col, fmt.Sprintf("'%c' must not follow other token content without separating whitespace", c))
		}
		if !isDigit(lx.peekAt(1)) {
			return token.Token{}, fatal(lineNum, filename, col, fmt.Sprintf("'%c' must be immediately followed by a digit", c))
		}
		return lx.lexNumber(col), nil
	}

	if isDigit(c) {
		return lx.lexNumber(col), nil
	}
	if isLetter(c) {
		return lx.lexWord(col), nil
	}

	return token.Token{}, fatal(lineNum, filename, col, fmt.Sprintf("unrecognized character %q", c))
}

// skipSpaces advances past horizontal whitespace and reports whether
// any was consumed.
func (lx *Lexer) skipSpaces() bool {
	start := lx.pos
	for lx.pos < len(lx.line) && isSpace(lx.line[lx.pos]) {
		lx.pos++
	}
	if lx.pos > start {
		lx.adjacent = false
		return true
	}
	return false
}

// emit finalizes a single-character token, marking it as emitted and
// adjacent to whatever follows.
func (lx *Lexer) emit(col, length int, kind token.Kind, text string) token.Token {
	lx.sawToken = true
	lx.adjacent = true
	lx.lastKind = kind
	return token.Token{Column: col, Length: length, Kind: kind, Text: text}
}

func (lx *Lexer) lexString(lineNum int, filename string, col int) (token.Token, *diag.Diagnostic) {
	start := lx.pos
	lx.pos++ // consume opening quote
	for {
		if lx.pos >= len(lx.line) {
			return token.Token{}, fatal(lineNum, filename, col, "unterminated string literal")
		}
		if lx.line[lx.pos] == '"' {
			lx.pos++
			break
		}
		lx.pos++
	}
	text := lx.line[start:lx.pos]
	return lx.emit(col, len(text), token.String, text), nil
}

func (lx *Lexer) lexNumber(col int) token.Token {
	start := lx.pos
	if lx.peek() == '+' || lx.peek() == '-' {
		lx.pos++
	}
	for isDigit(lx.peek()) {
		lx.pos++
	}
	text := lx.line[start:lx.pos]
	return lx.emit(col, len(text), token.Number, text)
}

func (lx *Lexer) lexWord(col int) token.Token {
	start := lx.pos
	for isIdentTail(lx.peek()) {
		lx.pos++
	}
	text := lx.line[start:lx.pos]

	if k, ok := token.LookupOperator(text); ok {
		return lx.emit(col, len(text), k, text)
	}
	if k, ok := token.LookupRegister(text); ok {
		return lx.emit(col, len(text), k, text)
	}
	if k, ok := token.LookupDirective(text); ok {
		return lx.emit(col, len(text), k, text)
	}
	return lx.emit(col, len(text), token.Identifier, text)
}
