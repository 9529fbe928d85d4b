// Package encoder implements the first-pass word encoder: it turns a
// parsed statement into zero or more 10-bit words, registers labels
// at their IC/DC address, and defers operand words whose identifier
// is not yet known to a fixup list for the second pass.
package encoder

import (
	"fmt"

	"github.com/tenbit/word10asm/internal/ast"
	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/parser"
	"github.com/tenbit/word10asm/internal/symtab"
)

// ICInit is the instruction counter's initial value; the instruction
// block of the object file starts at this address.
const ICInit = 100

// DCInit is the data counter's initial value.
const DCInit = 0

// MemoryWords is the total addressable word count (IC + DC must not
// exceed this).
const MemoryWords = 256

const (
	areAbsolute = 0
	areExtern   = 1
	areReloc    = 2
)

// ARE constants are exported for the resolver.
const (
	AREAbsolute = areAbsolute
	AREExtern   = areExtern
	ARERelocatable = areReloc
)

// Fixup is a deferred operand-word resolution: the identifier named by
// the operand was not a known label or extern at encode time.
type Fixup struct {
	IC    int
	Line  int
	Ident string
}

// ExternRef is one externals-output record: an extern identifier was
// referenced at Address.
type ExternRef struct {
	Address int
	Ident   string
}

// Encoder holds the per-file first-pass state: the instruction
// counter, data counter, the two word streams, the deferred-fixup
// list, and the externals-output stream accumulated as extern
// references are discovered during encoding.
type Encoder struct {
	IC int
	DC int

	InstWords []int
	DataWords []int

	Fixups  []Fixup
	Externs []ExternRef

	table    *symtab.Table
	diags    *diag.List
	filename string

	memoryErrorEmitted bool
}

// New creates an Encoder with IC and DC at their initial values.
func New(table *symtab.Table, diags *diag.List, filename string) *Encoder {
	return &Encoder{IC: ICInit, DC: DCInit, table: table, diags: diags, filename: filename}
}

// Encode registers the line's label (if any) and emits the words for
// its statement.
func (e *Encoder) Encode(lineNum int, lr *parser.LineResult) {
	if lr.HasLabel && !lr.Dropped {
		var addr int
		if lr.Category == ast.CategoryInstruction {
			addr = e.IC
		} else {
			addr = e.DC
		}
		e.table.DefineLabel(symtab.Label{Name: lr.Label, Address: addr, Line: lineNum, Category: lr.Category})
		if lr.LabelWarning {
			e.diags.AddWarning(diag.Diagnostic{
				Filename: e.filename,
				Line:     lineNum,
				Column:   lr.LabelColumn,
				Message:  fmt.Sprintf("label %q preceded by whitespace", lr.Label),
			})
		}
	}

	switch stmt := lr.Stmt.(type) {
	case *ast.Instruction:
		e.encodeInstruction(lineNum, stmt)
	case *ast.Directive:
		e.encodeDirective(stmt)
	}

	e.checkMemoryBound(lineNum)
}

func (e *Encoder) checkMemoryBound(lineNum int) {
	if e.memoryErrorEmitted {
		return
	}
	if e.IC+e.DC > MemoryWords {
		e.memoryErrorEmitted = true
		e.diags.Add(diag.Diagnostic{
			Filename: e.filename,
			Line:     lineNum,
			Column:   1,
			Kind:     diag.KindSemanticFirstPass,
			Message:  fmt.Sprintf("program exceeds available memory (%d words)", MemoryWords),
		})
	}
}

func (e *Encoder) emitInstWord(w int) {
	e.InstWords = append(e.InstWords, w)
	e.IC++
}

func header(opcode, srcMode, dstMode int) int {
	return opcode<<6 | srcMode<<4 | dstMode<<2 | areAbsolute
}

func modeCode(op *ast.Operand) int {
	if op == nil {
		return 0
	}
	return int(op.Mode)
}

func (e *Encoder) encodeInstruction(lineNum int, inst *ast.Instruction) {
	desc, _ := ast.OperatorByKind(inst.Opcode)
	e.emitInstWord(header(desc.Opcode, modeCode(inst.Src), modeCode(inst.Dest)))

	if inst.Src != nil && inst.Dest != nil && inst.Src.Mode == ast.Register && inst.Dest.Mode == ast.Register {
		e.emitInstWord(inst.Src.RegisterNum<<6 | inst.Dest.RegisterNum<<2 | areAbsolute)
		return
	}
	if inst.Src != nil {
		e.encodeOperand(lineNum, inst.Src, true)
	}
	if inst.Dest != nil {
		e.encodeOperand(lineNum, inst.Dest, false)
	}
}

// encodeOperand emits the word(s) for a single operand. isSrc selects
// the register bit position (source: 6..9, destination: 2..5) for the
// single-register case.
func (e *Encoder) encodeOperand(lineNum int, op *ast.Operand, isSrc bool) {
	switch op.Mode {
	case ast.Immediate:
		e.emitInstWord(op.Number<<2 | areAbsolute)

	case ast.Register:
		if isSrc {
			e.emitInstWord(op.RegisterNum<<6 | areAbsolute)
		} else {
			e.emitInstWord(op.RegisterNum<<2 | areAbsolute)
		}

	case ast.Direct:
		e.emitIdentifierWord(lineNum, op.Ident.Text)

	case ast.StructField:
		e.emitIdentifierWord(lineNum, op.Ident.Text)
		e.emitInstWord(op.Field<<2 | areAbsolute)
	}
}

// emitIdentifierWord resolves a Direct/StructField operand's
// identifier against the label and extern tables, emitting the
// resolved word or deferring a fixup.
func (e *Encoder) emitIdentifierWord(lineNum int, ident string) {
	if lbl, ok := e.table.Label(ident); ok && lbl.Category == ast.CategoryInstruction {
		e.emitInstWord(lbl.Address<<2 | areReloc)
		return
	}
	if _, ok := e.table.Extern(ident); ok {
		e.table.MarkExternUsed(ident)
		e.Externs = append(e.Externs, ExternRef{Address: e.IC, Ident: ident})
		e.emitInstWord(areExtern)
		return
	}
	e.Fixups = append(e.Fixups, Fixup{IC: e.IC, Line: lineNum, Ident: ident})
	e.emitInstWord(areReloc)
}

func (e *Encoder) emitDataWord(w int) {
	e.DataWords = append(e.DataWords, w)
	e.DC++
}

func (e *Encoder) encodeDirective(dir *ast.Directive) {
	switch dir.Kind {
	case ast.DirectiveData:
		for _, n := range dir.Numbers {
			e.emitDataWord(n)
		}

	case ast.DirectiveString:
		for _, c := range []byte(dir.StringBody) {
			e.emitDataWord(int(c))
		}
		e.emitDataWord(0)

	case ast.DirectiveStruct:
		e.emitDataWord(dir.StructNumber)
		for _, c := range []byte(dir.StructString) {
			e.emitDataWord(int(c))
		}
		e.emitDataWord(0)

	case ast.DirectiveEntry, ast.DirectiveExtern:
		// No words emitted; table registration already happened in
		// the parser.
	}
}

// ApplyICOffset implements the IC offset fixup (spec step following
// first pass): every data-category label's recorded address is
// shifted by the file's final IC, since the data block is emitted
// after the instruction block in the object file.
func (e *Encoder) ApplyICOffset() {
	for _, lbl := range e.table.Labels() {
		if lbl.Category == ast.CategoryData {
			lbl.Address += e.IC
		}
	}
}
