package ast

import (
	"testing"

	"github.com/tenbit/word10asm/internal/token"
)

func TestOperatorByKind(t *testing.T) {
	desc, ok := OperatorByKind(token.OpMov)
	if !ok {
		t.Fatal("expected mov to be found")
	}
	if desc.Opcode != 0 || desc.OperandCount != 2 {
		t.Errorf("mov descriptor = %+v, want opcode 0, 2 operands", desc)
	}

	if _, ok := OperatorByKind(token.Identifier); ok {
		t.Error("Identifier is not an operator kind")
	}
}

func TestPermitsMode(t *testing.T) {
	desc, _ := OperatorByKind(token.OpLea)
	if PermitsMode(desc.SrcModes, Immediate) {
		t.Error("lea source does not permit Immediate")
	}
	if !PermitsMode(desc.SrcModes, Direct) {
		t.Error("lea source should permit Direct")
	}
}

func TestZeroOperandOperatorsHaveNilModes(t *testing.T) {
	for _, k := range []token.Kind{token.OpRts, token.OpStop} {
		desc, ok := OperatorByKind(k)
		if !ok {
			t.Fatalf("%v should be a known operator", k)
		}
		if desc.OperandCount != 0 {
			t.Errorf("%v OperandCount = %d, want 0", k, desc.OperandCount)
		}
		if desc.SrcModes != nil || desc.DstModes != nil {
			t.Errorf("%v modes = %v / %v, want nil / nil", k, desc.SrcModes, desc.DstModes)
		}
	}
}

func TestAddressingModeString(t *testing.T) {
	cases := map[AddressingMode]string{
		Immediate: "IMM", Direct: "DIR", StructField: "STRUCT", Register: "REG",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", mode, got, want)
		}
	}
}
