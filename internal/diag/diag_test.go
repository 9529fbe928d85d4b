package diag

import "testing"

func TestListStickyErrorFlag(t *testing.T) {
	var l List
	l.AddWarning(Diagnostic{Message: "leading whitespace"})
	if l.Failed() {
		t.Fatal("a warning must not set the sticky error flag")
	}

	l.Add(Diagnostic{Message: "boom"})
	if !l.Failed() {
		t.Fatal("an error must set the sticky error flag")
	}

	l.AddWarning(Diagnostic{Message: "another warning"})
	if !l.Failed() {
		t.Fatal("a later warning must not clear an already-set sticky error flag")
	}
}

func TestErrorsAndWarningsSplit(t *testing.T) {
	var l List
	l.AddWarning(Diagnostic{Message: "w1"})
	l.Add(Diagnostic{Kind: KindSyntax, Message: "e1"})
	l.AddWarning(Diagnostic{Message: "w2"})

	if len(l.Warnings()) != 2 {
		t.Errorf("Warnings() = %v, want 2 entries", l.Warnings())
	}
	if len(l.Errors()) != 1 {
		t.Errorf("Errors() = %v, want 1 entry", l.Errors())
	}
}

func TestFormatCaretUnderline(t *testing.T) {
	d := Diagnostic{Filename: "x.as", Line: 3, Column: 5, Kind: KindSyntax, Message: "bad token"}
	out := d.Format("mov #1,\tr9")
	if out == "" {
		t.Fatal("Format should not be empty")
	}
	want := "x.as:3:5: error: bad token\n    mov #1, r9\n        ^     \n"
	if out != want {
		t.Errorf("Format = %q, want %q", out, want)
	}
}
