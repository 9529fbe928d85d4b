package assembler_test

import (
	"strings"
	"testing"

	"github.com/tenbit/word10asm/internal/assembler"
	"github.com/tenbit/word10asm/internal/encoder"
)

func assembleString(t *testing.T, source string) *assembler.Context {
	t.Helper()
	c := assembler.NewContext("test.as")
	c.Assemble(strings.NewReader(source))
	return c
}

func TestAssemble_S1_ImmediateAndRegisterOperands(t *testing.T) {
	c := assembleString(t, "MAIN: mov #-1, r3\n stop\n")

	if c.Diags.Failed() {
		t.Fatalf("unexpected errors: %v", c.Diags.Errors())
	}
	want := []int{12, 1020, 12, 960}
	if len(c.Enc.InstWords) != len(want) {
		t.Fatalf("InstWords = %v, want %v", c.Enc.InstWords, want)
	}
	for i, w := range want {
		if c.Enc.InstWords[i] != w {
			t.Errorf("InstWords[%d] = %d, want %d", i, c.Enc.InstWords[i], w)
		}
	}
	if c.FinalIC() != 104 {
		t.Errorf("FinalIC() = %d, want 104", c.FinalIC())
	}
	lbl, ok := c.Table.Label("MAIN")
	if !ok || lbl.Address != 100 {
		t.Errorf("label MAIN = %+v, want address 100", lbl)
	}
}

func TestAssemble_S2_ExternReference(t *testing.T) {
	c := assembleString(t, ".extern X\n mov X, r1\n")

	if c.Diags.Failed() {
		t.Fatalf("unexpected errors: %v", c.Diags.Errors())
	}
	if len(c.Externs) != 1 {
		t.Fatalf("Externs = %v, want 1 record", c.Externs)
	}
	if c.Externs[0].Ident != "X" || c.Externs[0].Address != 101 {
		t.Errorf("Externs[0] = %+v, want {X 101}", c.Externs[0])
	}
	ext, ok := c.Table.Extern("X")
	if !ok || !ext.Used {
		t.Errorf("extern X used flag = %+v, want true", ext)
	}
}

func TestAssemble_S3_DataDirectiveICOffset(t *testing.T) {
	c := assembleString(t, "A: .data +5, -3, 0\n")

	if c.Diags.Failed() {
		t.Fatalf("unexpected errors: %v", c.Diags.Errors())
	}
	want := []int{5, 1021, 0}
	for i, w := range want {
		if c.Enc.DataWords[i] != w {
			t.Errorf("DataWords[%d] = %d, want %d", i, c.Enc.DataWords[i], w)
		}
	}
	lbl, ok := c.Table.Label("A")
	if !ok || lbl.Address != encoder.ICInit {
		t.Errorf("label A = %+v, want address %d", lbl, encoder.ICInit)
	}
}

func TestAssemble_S4_UndefinedEntryFails(t *testing.T) {
	c := assembleString(t, ".entry NONESUCH\n")

	if !c.Diags.Failed() {
		t.Fatal("expected assembly to fail for an undefined entry")
	}
}

func TestAssemble_S5_ReservedWordAsLabel(t *testing.T) {
	c := assembleString(t, "r0: mov r0, r1\n")

	if !c.Diags.Failed() {
		t.Fatal("expected assembly to fail: r0 is a reserved word")
	}
}

func TestAssemble_S6_ImmediateOutOfRange(t *testing.T) {
	c := assembleString(t, "mov #128, r0\n")

	if !c.Diags.Failed() {
		t.Fatal("expected assembly to fail: immediate 128 is out of range")
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	source := "MAIN: mov #-1, r3\n stop\n"
	a := assembleString(t, source)
	b := assembleString(t, source)

	if len(a.Enc.InstWords) != len(b.Enc.InstWords) {
		t.Fatalf("InstWords length differs between runs")
	}
	for i := range a.Enc.InstWords {
		if a.Enc.InstWords[i] != b.Enc.InstWords[i] {
			t.Errorf("InstWords[%d] differs between runs: %d vs %d", i, a.Enc.InstWords[i], b.Enc.InstWords[i])
		}
	}
}

func TestAssemble_DeferredFixupToLaterLabel(t *testing.T) {
	c := assembleString(t, "mov LATER, r1\nLATER: stop\n")

	if c.Diags.Failed() {
		t.Fatalf("unexpected errors: %v", c.Diags.Errors())
	}
	lbl, ok := c.Table.Label("LATER")
	if !ok {
		t.Fatal("expected label LATER to be defined")
	}
	want := lbl.Address<<2 | 2
	if c.Enc.InstWords[1] != want {
		t.Errorf("fixed-up word = %d, want %d", c.Enc.InstWords[1], want)
	}
}

func TestAssemble_BackwardReferenceToDataLabelUsesPostOffsetAddress(t *testing.T) {
	c := assembleString(t, "A: .data 5\nmov A, r1\nstop\n")

	if c.Diags.Failed() {
		t.Fatalf("unexpected errors: %v", c.Diags.Errors())
	}
	lbl, ok := c.Table.Label("A")
	if !ok {
		t.Fatal("expected label A to be defined")
	}
	// A is a .data label declared before the IC offset is known; the
	// operand word referencing it must be deferred to the second pass
	// and rewritten with the post-ApplyICOffset address, not resolved
	// immediately against A's stale pre-offset address.
	want := lbl.Address<<2 | 2
	if c.Enc.InstWords[1] != want {
		t.Errorf("operand word for backward .data reference = %d, want %d (label address %d)", c.Enc.InstWords[1], want, lbl.Address)
	}
}

func TestAssemble_UnusedExternFails(t *testing.T) {
	c := assembleString(t, ".extern UNUSED\nstop\n")

	if !c.Diags.Failed() {
		t.Fatal("expected assembly to fail: UNUSED extern is never referenced")
	}
}
