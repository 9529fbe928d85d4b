package parser

import (
	"testing"

	"github.com/tenbit/word10asm/internal/ast"
	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/lexer"
	"github.com/tenbit/word10asm/internal/symtab"
)

func parseLine(t *testing.T, line string, table *symtab.Table, diags *diag.List) *LineResult {
	t.Helper()
	toks, d := lexer.TokenizeLine(line, 1, "test.as")
	if d != nil {
		t.Fatalf("unexpected lexical error: %v", d)
	}
	p := New(toks, 1, "test.as", table, diags)
	return p.Parse()
}

func TestParse_LabeledInstruction(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	r := parseLine(t, "MAIN: mov #-1, r3", table, &diags)

	if diags.Failed() || r == nil {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if !r.HasLabel || r.Label != "MAIN" {
		t.Errorf("label = %q, %v, want MAIN, true", r.Label, r.HasLabel)
	}
	inst, ok := r.Stmt.(*ast.Instruction)
	if !ok {
		t.Fatalf("Stmt = %T, want *ast.Instruction", r.Stmt)
	}
	if inst.Src.Mode != ast.Immediate || inst.Src.Number != 255 {
		t.Errorf("Src = %+v, want Immediate(255)", inst.Src)
	}
	if inst.Dest.Mode != ast.Register || inst.Dest.RegisterNum != 3 {
		t.Errorf("Dest = %+v, want Register(3)", inst.Dest)
	}
}

func TestParse_StructOperand(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	r := parseLine(t, "lea point.1, r2", table, &diags)

	if diags.Failed() || r == nil {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	inst := r.Stmt.(*ast.Instruction)
	if inst.Src.Mode != ast.StructField || inst.Src.Field != 1 || inst.Src.Ident.Text != "point" {
		t.Errorf("Src = %+v, want StructField(point, 1)", inst.Src)
	}
}

func TestParse_RegisterOutOfOperandRangeRejected(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	parseLine(t, "clr r8", table, &diags)

	if !diags.Failed() {
		t.Fatal("expected r8 to be rejected as an operand register")
	}
}

func TestParse_AddressingModeViolation(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	// lea's source mode permits only Direct/StructField, not Immediate.
	parseLine(t, "lea #1, r1", table, &diags)

	if !diags.Failed() {
		t.Fatal("expected an addressing-mode violation for lea's immediate source")
	}
}

func TestParse_DuplicateLabel(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	parseLine(t, "A: stop", table, &diags)
	if diags.Failed() {
		t.Fatalf("unexpected errors on first declaration: %v", diags.Errors())
	}
	// The encoder, not the parser, registers a parsed label.
	table.DefineLabel(symtab.Label{Name: "A", Address: 100, Line: 1, Category: ast.CategoryInstruction})
	parseLine(t, "A: stop", table, &diags)
	if !diags.Failed() {
		t.Fatal("expected a duplicate-label error")
	}
}

func TestParse_DataDirective(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	r := parseLine(t, "A: .data +5, -3, 0", table, &diags)

	if diags.Failed() || r == nil {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	dir := r.Stmt.(*ast.Directive)
	want := []int{5, 1021, 0}
	for i, w := range want {
		if dir.Numbers[i] != w {
			t.Errorf("Numbers[%d] = %d, want %d", i, dir.Numbers[i], w)
		}
	}
}

func TestParse_EntryDropsLabel(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	table.DefineLabel(symtab.Label{Name: "TARGET", Address: 100, Category: ast.CategoryInstruction})
	r := parseLine(t, "unused: .entry TARGET", table, &diags)

	if diags.Failed() || r == nil {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if !r.Dropped {
		t.Error("expected .entry statement's label to be dropped")
	}
	if _, ok := table.Entry("TARGET"); !ok {
		t.Error("expected TARGET to be registered as an entry")
	}
}

func TestParse_ExternConflictsWithLabel(t *testing.T) {
	table := symtab.New()
	var diags diag.List
	table.DefineLabel(symtab.Label{Name: "X", Address: 100, Category: ast.CategoryInstruction})
	parseLine(t, ".extern X", table, &diags)

	if !diags.Failed() {
		t.Fatal("expected an error declaring extern for an already-defined label")
	}
}
