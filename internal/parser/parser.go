// Package parser consumes a line's token sequence and produces a
// typed statement (instruction or data directive) plus line metadata:
// the optional label, whether the line began with whitespace before
// it, and the statement's category.
package parser

import (
	"fmt"
	"strconv"

	"github.com/tenbit/word10asm/internal/ast"
	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/stream"
	"github.com/tenbit/word10asm/internal/symtab"
	"github.com/tenbit/word10asm/internal/token"
)

const maxIdentifierLength = 30

// LineResult is everything the encoder needs to act on one parsed line.
type LineResult struct {
	HasLabel     bool
	Label        string
	LabelColumn  int
	LabelWarning bool // line began with whitespace before the label
	Category     ast.StatementCategory
	Stmt         ast.Statement
	// Dropped is true for .entry/.extern statements: the label (if
	// any) is discarded per the language's rule that labels are
	// reserved for instruction and data-emitting directives.
	Dropped bool
}

// Parser parses one line's tokens against a shared per-file symbol
// table (consulted, not mutated, for label/extern duplicate checks;
// entry/extern registration is owned by the parser for directive
// statements since it needs no address information — see DESIGN.md).
type Parser struct {
	s        *stream.Stream
	table    *symtab.Table
	diags    *diag.List
	filename string
	lineNum  int
}

// New creates a Parser for one line's tokens.
func New(tokens []token.Token, lineNum int, filename string, table *symtab.Table, diags *diag.List) *Parser {
	return &Parser{
		s:        stream.New(tokens),
		table:    table,
		diags:    diags,
		filename: filename,
		lineNum:  lineNum,
	}
}

func (p *Parser) errorAt(tok token.Token, kind diag.Kind, format string, args ...interface{}) {
	p.diags.Add(diag.Diagnostic{
		Filename: p.filename,
		Line:     p.lineNum,
		Column:   tok.Column,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) warnAt(tok token.Token, format string, args ...interface{}) {
	p.diags.AddWarning(diag.Diagnostic{
		Filename: p.filename,
		Line:     p.lineNum,
		Column:   tok.Column,
		Message:  fmt.Sprintf(format, args...),
	})
}

func isLabelCandidateKind(k token.Kind) bool {
	return k == token.Identifier || token.IsOperator(k) || token.IsRegister(k) || token.IsDirective(k)
}

// Parse parses the line and returns its result, or nil on a fatal
// parse error (already recorded in diags).
func (p *Parser) Parse() *LineResult {
	label, hasLabel, labelCol, labelWarn, ok := p.parseLabel()
	if !ok {
		return nil
	}

	cur := p.s.Current()
	switch {
	case token.IsOperator(cur.Kind):
		inst := p.parseInstruction()
		if inst == nil {
			return nil
		}
		return &LineResult{HasLabel: hasLabel, Label: label, LabelColumn: labelCol, LabelWarning: labelWarn, Category: ast.CategoryInstruction, Stmt: inst}

	case cur.Kind == token.Dot:
		dir, dropped := p.parseDirective()
		if dir == nil {
			return nil
		}
		return &LineResult{HasLabel: hasLabel, Label: label, LabelColumn: labelCol, LabelWarning: labelWarn, Category: ast.CategoryData, Stmt: dir, Dropped: dropped}

	default:
		p.errorAt(cur, diag.KindSyntax, "expected an operator mnemonic or a directive, found %s", describe(cur))
		return nil
	}
}

func describe(t token.Token) string {
	if t.Kind == token.EOL {
		return "end of line"
	}
	return fmt.Sprintf("%q", t.Text)
}

// parseLabel consumes an optional "identifier:" prefix.
func (p *Parser) parseLabel() (label string, hasLabel bool, column int, leadingWhitespace bool, ok bool) {
	cur := p.s.Current()
	if !isLabelCandidateKind(cur.Kind) {
		return "", false, 0, false, true
	}

	p.s.Save()
	p.s.Advance()
	if p.s.Current().Kind != token.Colon {
		p.s.Load()
		return "", false, 0, false, true
	}

	// It's a label: cur:Colon confirmed.
	if cur.Kind != token.Identifier {
		p.errorAt(cur, diag.KindSemanticFirstPass, "reserved word %q cannot be used as a label", cur.Text)
		return "", false, 0, false, false
	}
	if len(cur.Text) > maxIdentifierLength {
		p.errorAt(cur, diag.KindSemanticFirstPass, "label %q exceeds maximum length of %d characters", cur.Text, maxIdentifierLength)
		return "", false, 0, false, false
	}
	if existing, exists := p.table.Label(cur.Text); exists {
		p.errorAt(cur, diag.KindSemanticFirstPass, "duplicate label %q (previously defined at line %d)", cur.Text, existing.Line)
		return "", false, 0, false, false
	}
	if _, exists := p.table.Extern(cur.Text); exists {
		p.errorAt(cur, diag.KindSemanticFirstPass, "label %q was already declared extern", cur.Text)
		return "", false, 0, false, false
	}

	p.s.Advance() // consume the colon
	if cur.Column > 1 {
		leadingWhitespace = true
	}
	return cur.Text, true, cur.Column, leadingWhitespace, true
}

// parseInstruction parses an operator mnemonic and its operands.
func (p *Parser) parseInstruction() *ast.Instruction {
	opTok := p.s.Current()
	desc, ok := ast.OperatorByKind(opTok.Kind)
	if !ok {
		p.errorAt(opTok, diag.KindSyntax, "unrecognized operator %q", opTok.Text)
		return nil
	}
	p.s.Advance()

	inst := &ast.Instruction{Opcode: opTok.Kind, Mnemonic: desc.Mnemonic}

	switch desc.OperandCount {
	case 0:
		if !p.s.IsEOL() {
			p.errorAt(p.s.Current(), diag.KindSyntax, "%s takes no operands", desc.Mnemonic)
			return nil
		}
		return inst

	case 1:
		operand := p.parseOperand()
		if operand == nil {
			return nil
		}
		if !ast.PermitsMode(desc.DstModes, operand.Mode) {
			p.reportModeViolation(operand, desc.Mnemonic, "destination", desc.DstModes)
			return nil
		}
		inst.Dest = operand
		if !p.expectEndOfOperands() {
			return nil
		}
		return inst

	default: // 2
		src := p.parseOperand()
		if src == nil {
			return nil
		}
		if !ast.PermitsMode(desc.SrcModes, src.Mode) {
			p.reportModeViolation(src, desc.Mnemonic, "source", desc.SrcModes)
			return nil
		}
		if p.s.Current().Kind != token.Comma {
			if p.s.IsEOL() {
				p.errorAt(p.s.Current(), diag.KindSyntax, "%s requires two operands", desc.Mnemonic)
			} else {
				p.errorAt(p.s.Current(), diag.KindSyntax, "expected ',' between operands, found %s", describe(p.s.Current()))
			}
			return nil
		}
		p.s.Advance() // consume comma
		if p.s.Current().Kind == token.EOL {
			p.errorAt(p.s.Current(), diag.KindSyntax, "trailing comma before end of line")
			return nil
		}
		dst := p.parseOperand()
		if dst == nil {
			return nil
		}
		if !ast.PermitsMode(desc.DstModes, dst.Mode) {
			p.reportModeViolation(dst, desc.Mnemonic, "destination", desc.DstModes)
			return nil
		}
		inst.Src = src
		inst.Dest = dst
		if !p.expectEndOfOperands() {
			return nil
		}
		return inst
	}
}

func (p *Parser) expectEndOfOperands() bool {
	if p.s.Current().Kind == token.Comma {
		p.errorAt(p.s.Current(), diag.KindSyntax, "trailing comma before end of line")
		return false
	}
	if !p.s.IsEOL() {
		p.errorAt(p.s.Current(), diag.KindSyntax, "unexpected token after operand: %s", describe(p.s.Current()))
		return false
	}
	return true
}

func (p *Parser) reportModeViolation(op *ast.Operand, mnemonic, position string, permitted []ast.AddressingMode) {
	names := make([]string, 0, len(permitted))
	for _, m := range permitted {
		names = append(names, m.String())
	}
	p.diags.Add(diag.Diagnostic{
		Filename: p.filename,
		Line:     p.lineNum,
		Column:   op.Column,
		Kind:     diag.KindSemanticFirstPass,
		Message:  fmt.Sprintf("addressing mode %s not permitted for %s %s operand; permitted: %v", op.Mode, mnemonic, position, names),
	})
}

// parseOperand parses a single operand, dispatching on its first token.
func (p *Parser) parseOperand() *ast.Operand {
	cur := p.s.Current()

	switch {
	case cur.Kind == token.Hash:
		return p.parseImmediateOperand()

	case token.IsRegister(cur.Kind):
		p.s.Advance()
		n := token.RegisterNumber(cur.Kind)
		if n > 7 {
			p.errorAt(cur, diag.KindSemanticFirstPass, "register %q is not a valid operand register", cur.Text)
			return nil
		}
		return &ast.Operand{Column: cur.Column, Length: cur.Length, Mode: ast.Register, RegisterNum: n}

	case cur.Kind == token.Identifier:
		p.s.Save()
		p.s.Advance()
		if p.s.Current().Kind == token.Dot {
			p.s.Advance()
			return p.parseStructField(cur)
		}
		p.s.Load()
		p.s.Advance()
		if len(cur.Text) > maxIdentifierLength {
			p.errorAt(cur, diag.KindSemanticFirstPass, "identifier %q exceeds maximum length of %d characters", cur.Text, maxIdentifierLength)
			return nil
		}
		return &ast.Operand{Column: cur.Column, Length: cur.Length, Mode: ast.Direct, Ident: cur}

	default:
		p.errorAt(cur, diag.KindSyntax, "expected an operand, found %s", describe(cur))
		return nil
	}
}

func (p *Parser) parseImmediateOperand() *ast.Operand {
	hashTok := p.s.Current()
	p.s.Advance()
	numTok := p.s.Current()
	if numTok.Kind != token.Number {
		p.errorAt(numTok, diag.KindSyntax, "expected a number after '#', found %s", describe(numTok))
		return nil
	}
	p.s.Advance()

	value, err := strconv.Atoi(numTok.Text)
	if err != nil {
		p.errorAt(numTok, diag.KindSyntax, "malformed number %q", numTok.Text)
		return nil
	}
	if value < -128 || value > 127 {
		p.errorAt(numTok, diag.KindSemanticFirstPass, "immediate value %d out of range (-128..127)", value)
		return nil
	}
	if value < 0 {
		value += 256
	}
	return &ast.Operand{Column: hashTok.Column, Length: numTok.Column + numTok.Length - hashTok.Column, Mode: ast.Immediate, Number: value}
}

func (p *Parser) parseStructField(identTok token.Token) *ast.Operand {
	if len(identTok.Text) > maxIdentifierLength {
		p.errorAt(identTok, diag.KindSemanticFirstPass, "identifier %q exceeds maximum length of %d characters", identTok.Text, maxIdentifierLength)
		return nil
	}
	fieldTok := p.s.Current()
	if fieldTok.Kind != token.Number {
		p.errorAt(fieldTok, diag.KindSyntax, "expected a field number (1 or 2) after '.', found %s", describe(fieldTok))
		return nil
	}
	p.s.Advance()
	field, err := strconv.Atoi(fieldTok.Text)
	if err != nil || (field != 1 && field != 2) {
		p.errorAt(fieldTok, diag.KindSyntax, "struct field number must be 1 or 2, found %q", fieldTok.Text)
		return nil
	}
	return &ast.Operand{
		Column: identTok.Column,
		Length: fieldTok.Column + fieldTok.Length - identTok.Column,
		Mode:   ast.StructField,
		Ident:  identTok,
		Field:  field,
	}
}

// parseDirective parses ".directive args..." after the label (if any)
// has already been consumed. The current token is the leading '.'.
func (p *Parser) parseDirective() (*ast.Directive, bool) {
	dotTok := p.s.Current()
	p.s.Advance()
	nameTok := p.s.Current()
	if !token.IsDirective(nameTok.Kind) {
		p.errorAt(dotTok, diag.KindSyntax, "unrecognized directive %q", nameTok.Text)
		return nil, false
	}
	p.s.Advance()

	switch nameTok.Kind {
	case token.DirData:
		return p.parseDataDirective(), false
	case token.DirString:
		return p.parseStringDirective(), false
	case token.DirStruct:
		return p.parseStructDirective(), false
	case token.DirEntry:
		return p.parseEntryOrExtern(ast.DirectiveEntry), true
	case token.DirExtern:
		return p.parseEntryOrExtern(ast.DirectiveExtern), true
	default:
		return nil, false
	}
}

func (p *Parser) parseSignedWord(maxAbs int) (int, bool) {
	tok := p.s.Current()
	if tok.Kind != token.Number {
		p.errorAt(tok, diag.KindSyntax, "expected a number, found %s", describe(tok))
		return 0, false
	}
	p.s.Advance()
	value, err := strconv.Atoi(tok.Text)
	if err != nil {
		p.errorAt(tok, diag.KindSyntax, "malformed number %q", tok.Text)
		return 0, false
	}
	if value < -(maxAbs+1) || value > maxAbs {
		p.errorAt(tok, diag.KindSemanticFirstPass, "value %d out of range (-%d..%d)", value, maxAbs+1, maxAbs)
		return 0, false
	}
	if value < 0 {
		value += 2 * (maxAbs + 1)
	}
	return value, true
}

func (p *Parser) parseDataDirective() *ast.Directive {
	var numbers []int
	for {
		v, ok := p.parseSignedWord(511)
		if !ok {
			return nil
		}
		numbers = append(numbers, v)
		if p.s.Current().Kind == token.Comma {
			p.s.Advance()
			if p.s.IsEOL() {
				p.errorAt(p.s.Current(), diag.KindSyntax, "trailing comma before end of line")
				return nil
			}
			continue
		}
		break
	}
	if !p.s.IsEOL() {
		p.errorAt(p.s.Current(), diag.KindSyntax, "unexpected token after .data list: %s", describe(p.s.Current()))
		return nil
	}
	return &ast.Directive{Kind: ast.DirectiveData, Numbers: numbers}
}

func (p *Parser) parseStringLiteral() (string, bool) {
	tok := p.s.Current()
	if tok.Kind != token.String {
		p.errorAt(tok, diag.KindSyntax, "expected a string literal, found %s", describe(tok))
		return "", false
	}
	p.s.Advance()
	// Text includes the bounding quotes.
	return tok.Text[1 : len(tok.Text)-1], true
}

func (p *Parser) parseStringDirective() *ast.Directive {
	body, ok := p.parseStringLiteral()
	if !ok {
		return nil
	}
	if !p.s.IsEOL() {
		p.errorAt(p.s.Current(), diag.KindSyntax, "unexpected token after .string literal: %s", describe(p.s.Current()))
		return nil
	}
	return &ast.Directive{Kind: ast.DirectiveString, StringBody: body}
}

func (p *Parser) parseStructDirective() *ast.Directive {
	n, ok := p.parseSignedWord(511)
	if !ok {
		return nil
	}
	if p.s.Current().Kind != token.Comma {
		p.errorAt(p.s.Current(), diag.KindSyntax, "expected ',' between .struct number and string, found %s", describe(p.s.Current()))
		return nil
	}
	p.s.Advance()
	body, ok := p.parseStringLiteral()
	if !ok {
		return nil
	}
	if !p.s.IsEOL() {
		p.errorAt(p.s.Current(), diag.KindSyntax, "unexpected token after .struct, found %s", describe(p.s.Current()))
		return nil
	}
	return &ast.Directive{Kind: ast.DirectiveStruct, StructNumber: n, StructString: body}
}

func (p *Parser) parseEntryOrExtern(kind ast.DirectiveKind) *ast.Directive {
	tok := p.s.Current()
	if tok.Kind != token.Identifier {
		p.errorAt(tok, diag.KindSyntax, "expected an identifier, found %s", describe(tok))
		return nil
	}
	p.s.Advance()
	if !p.s.IsEOL() {
		p.errorAt(p.s.Current(), diag.KindSyntax, "unexpected token after identifier: %s", describe(p.s.Current()))
		return nil
	}

	switch kind {
	case ast.DirectiveEntry:
		if _, exists := p.table.Entry(tok.Text); exists {
			p.warnAt(tok, "duplicate .entry declaration for %q", tok.Text)
			return &ast.Directive{Kind: kind, Ident: tok}
		}
		if _, exists := p.table.Extern(tok.Text); exists {
			p.warnAt(tok, "%q was already declared extern; .entry declaration dropped", tok.Text)
			return &ast.Directive{Kind: kind, Ident: tok}
		}
		p.table.DefineEntry(symtab.Entry{Name: tok.Text, Line: p.lineNum})

	case ast.DirectiveExtern:
		if _, exists := p.table.Extern(tok.Text); exists {
			p.warnAt(tok, "duplicate .extern declaration for %q", tok.Text)
			return &ast.Directive{Kind: kind, Ident: tok}
		}
		if _, exists := p.table.Entry(tok.Text); exists {
			p.errorAt(tok, diag.KindSemanticFirstPass, "%q was already declared .entry", tok.Text)
			return nil
		}
		if _, exists := p.table.Label(tok.Text); exists {
			p.errorAt(tok, diag.KindSemanticFirstPass, "%q is already defined as a label", tok.Text)
			return nil
		}
		p.table.DefineExtern(symtab.Extern{Name: tok.Text, Line: p.lineNum})
	}

	return &ast.Directive{Kind: kind, Ident: tok}
}
