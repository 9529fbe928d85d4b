// Package ast defines the typed statement tree produced by the
// parser: a tagged variant for instruction and data-directive
// statements, replacing the source assembler's void-pointer
// collections keyed by a category enum (see project redesign notes).
package ast

import "github.com/tenbit/word10asm/internal/token"

// AddressingMode is one of the four operand addressing modes.
type AddressingMode int

const (
	Immediate AddressingMode = iota
	Direct
	StructField
	Register
)

func (m AddressingMode) String() string {
	switch m {
	case Immediate:
		return "IMM"
	case Direct:
		return "DIR"
	case StructField:
		return "STRUCT"
	case Register:
		return "REG"
	default:
		return "?"
	}
}

// Operand is a single instruction operand. Only the fields relevant
// to Mode are populated:
//
//   - Immediate:   Number
//   - Direct:      Ident
//   - StructField: Ident, Field (1 or 2)
//   - Register:    RegisterNum (0..7)
type Operand struct {
	Column int
	Length int
	Mode   AddressingMode

	Number      int // reduced two's-complement 8-bit value for Immediate
	Ident       token.Token
	Field       int
	RegisterNum int
}

// Statement is the sum type over the two statement categories a line
// can produce: an Instruction or a Directive. It carries no methods of
// its own; callers type-switch on the concrete value.
type Statement interface {
	statement()
}

// Instruction is a parsed operator statement. When OperandCount is 1,
// the single operand is carried as Dest (the destination position),
// matching the source language's operand-count convention.
type Instruction struct {
	Opcode   token.Kind // one of token.OpMov .. token.OpStop
	Mnemonic string
	Src      *Operand
	Dest     *Operand
}

func (*Instruction) statement() {}

// DirectiveKind selects which of the five directive shapes a
// Directive statement carries.
type DirectiveKind int

const (
	DirectiveData DirectiveKind = iota
	DirectiveString
	DirectiveStruct
	DirectiveEntry
	DirectiveExtern
)

// Directive is a parsed data-directive statement: a tagged union over
// {numeric list, struct literal, string literal, entry identifier,
// extern identifier}.
type Directive struct {
	Kind DirectiveKind

	Numbers []int // DirectiveData: reduced 10-bit two's-complement values

	StructNumber int    // DirectiveStruct
	StructString string // DirectiveStruct: string body without bounding quotes

	StringBody string // DirectiveString: string body without bounding quotes

	Ident token.Token // DirectiveEntry / DirectiveExtern
}

func (*Directive) statement() {}

// StatementCategory classifies a line for label-registration and
// second-pass purposes.
type StatementCategory int

const (
	CategoryInstruction StatementCategory = iota
	CategoryData
)

// OperatorDesc is the static descriptor for one of the 16 operator
// mnemonics: its opcode, its operand count, and the two addressing
// mode permission vectors (source, destination), reproduced verbatim
// from the external interface.
type OperatorDesc struct {
	Kind         token.Kind
	Mnemonic     string
	Opcode       int
	OperandCount int
	SrcModes     []AddressingMode
	DstModes     []AddressingMode
}

var allModes = []AddressingMode{Immediate, Direct, StructField, Register}
var memModes = []AddressingMode{Direct, StructField, Register}
var dirStructModes = []AddressingMode{Direct, StructField}

// Operators is the static, ordered table of the 16 operator
// descriptors, indexed by opcode 0..15.
var Operators = []OperatorDesc{
	{token.OpMov, "mov", 0, 2, allModes, memModes},
	{token.OpCmp, "cmp", 1, 2, allModes, allModes},
	{token.OpAdd, "add", 2, 2, allModes, memModes},
	{token.OpSub, "sub", 3, 2, allModes, memModes},
	{token.OpNot, "not", 4, 1, nil, memModes},
	{token.OpClr, "clr", 5, 1, nil, memModes},
	{token.OpLea, "lea", 6, 2, dirStructModes, memModes},
	{token.OpInc, "inc", 7, 1, nil, memModes},
	{token.OpDec, "dec", 8, 1, nil, memModes},
	{token.OpJmp, "jmp", 9, 1, nil, memModes},
	{token.OpBne, "bne", 10, 1, nil, memModes},
	{token.OpRed, "red", 11, 1, nil, memModes},
	{token.OpPrn, "prn", 12, 1, nil, allModes},
	{token.OpJsr, "jsr", 13, 1, nil, memModes},
	{token.OpRts, "rts", 14, 0, nil, nil},
	{token.OpStop, "stop", 15, 0, nil, nil},
}

// OperatorByKind returns the descriptor for an operator token kind.
func OperatorByKind(k token.Kind) (OperatorDesc, bool) {
	for _, d := range Operators {
		if d.Kind == k {
			return d, true
		}
	}
	return OperatorDesc{}, false
}

// PermitsMode reports whether mode is present in modes.
func PermitsMode(modes []AddressingMode, mode AddressingMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
