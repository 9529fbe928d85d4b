// Package token defines the closed set of lexical token kinds produced
// by the lexer and consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token. The set is closed:
// every mnemonic, register name, and directive name maps to its own
// concrete Kind, and a handful of "category" probes (IsOperator,
// IsRegister, IsDirective) collapse the concrete kinds the way the
// source language's tokstream module does.
type Kind int

const (
	Unknown Kind = iota

	// Punctuation
	Dot
	Comma
	Colon
	Hash
	Quote // bounding quote of a string literal (the literal itself is String)

	Number
	String
	Identifier

	// Operators, one Kind per mnemonic (opcode 0..15)
	OpMov
	OpCmp
	OpAdd
	OpSub
	OpNot
	OpClr
	OpLea
	OpInc
	OpDec
	OpJmp
	OpBne
	OpRed
	OpPrn
	OpJsr
	OpRts
	OpStop

	// Registers r0..r9 (r8, r9 are lexically registers but invalid operands)
	Reg0
	Reg1
	Reg2
	Reg3
	Reg4
	Reg5
	Reg6
	Reg7
	Reg8
	Reg9

	// Directives
	DirData
	DirString
	DirStruct
	DirEntry
	DirExtern

	EOL
)

var names = map[Kind]string{
	Unknown:    "unknown",
	Dot:        ".",
	Comma:      ",",
	Colon:      ":",
	Hash:       "#",
	Quote:      `"`,
	Number:     "number",
	String:     "string",
	Identifier: "identifier",
	OpMov:      "mov", OpCmp: "cmp", OpAdd: "add", OpSub: "sub",
	OpNot: "not", OpClr: "clr", OpLea: "lea", OpInc: "inc",
	OpDec: "dec", OpJmp: "jmp", OpBne: "bne", OpRed: "red",
	OpPrn: "prn", OpJsr: "jsr", OpRts: "rts", OpStop: "stop",
	Reg0: "r0", Reg1: "r1", Reg2: "r2", Reg3: "r3", Reg4: "r4",
	Reg5: "r5", Reg6: "r6", Reg7: "r7", Reg8: "r8", Reg9: "r9",
	DirData: ".data", DirString: ".string", DirStruct: ".struct",
	DirEntry: ".entry", DirExtern: ".extern",
	EOL: "end-of-line",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// operators maps mnemonic text to its Kind.
var operators = map[string]Kind{
	"mov": OpMov, "cmp": OpCmp, "add": OpAdd, "sub": OpSub,
	"not": OpNot, "clr": OpClr, "lea": OpLea, "inc": OpInc,
	"dec": OpDec, "jmp": OpJmp, "bne": OpBne, "red": OpRed,
	"prn": OpPrn, "jsr": OpJsr, "rts": OpRts, "stop": OpStop,
}

var registers = map[string]Kind{
	"r0": Reg0, "r1": Reg1, "r2": Reg2, "r3": Reg3, "r4": Reg4,
	"r5": Reg5, "r6": Reg6, "r7": Reg7, "r8": Reg8, "r9": Reg9,
}

var directives = map[string]Kind{
	"data": DirData, "string": DirString, "struct": DirStruct,
	"entry": DirEntry, "extern": DirExtern,
}

// LookupOperator returns the operator Kind for mnemonic text, if any.
func LookupOperator(s string) (Kind, bool) { k, ok := operators[s]; return k, ok }

// LookupRegister returns the register Kind for register text, if any.
func LookupRegister(s string) (Kind, bool) { k, ok := registers[s]; return k, ok }

// LookupDirective returns the directive Kind for directive text
// (without the leading dot), if any.
func LookupDirective(s string) (Kind, bool) { k, ok := directives[s]; return k, ok }

// IsOperator reports whether k is one of the 16 operator mnemonics.
func IsOperator(k Kind) bool { return k >= OpMov && k <= OpStop }

// IsRegister reports whether k is one of the 10 register kinds
// (r8/r9 included — they are lexically registers, invalid as operands).
func IsRegister(k Kind) bool { return k >= Reg0 && k <= Reg9 }

// IsDirective reports whether k is one of the 5 data directives.
func IsDirective(k Kind) bool { return k >= DirData && k <= DirExtern }

// RegisterNumber returns 0..9 for a register Kind.
func RegisterNumber(k Kind) int {
	if !IsRegister(k) {
		return -1
	}
	return int(k - Reg0)
}

// Token is a single lexical token: its starting column, its length in
// source characters, its Kind, and its literal text (quotes included
// for string literals).
type Token struct {
	Column int
	Length int
	Kind   Kind
	Text   string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Column)
}
