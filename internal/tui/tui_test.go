package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tenbit/word10asm/internal/assembler"
)

func TestNew_PopulatesPanesFromAssembledContext(t *testing.T) {
	dir := t.TempDir()
	basename := filepath.Join(dir, "prog")

	ctx := assembler.NewContext(basename + ".as")
	ctx.Assemble(strings.NewReader("MAIN: mov #-1, r3\nstop\n.entry MAIN\n"))
	if err := ctx.WriteOutputs(basename); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if ctx.Diags.Failed() {
		t.Fatalf("unexpected assembly failure: %v", ctx.Diags.Errors())
	}

	browser, err := New(ctx, basename)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if browser.LabelsView.GetRowCount() != 2 { // header + MAIN
		t.Errorf("LabelsView rows = %d, want 2", browser.LabelsView.GetRowCount())
	}
	if browser.WordsView.GetRowCount() != 1+len(browser.image.Words) {
		t.Errorf("WordsView rows = %d, want %d", browser.WordsView.GetRowCount(), 1+len(browser.image.Words))
	}
	if browser.RecordsView.GetRowCount() != 2 { // header + MAIN entry
		t.Errorf("RecordsView rows = %d, want 2", browser.RecordsView.GetRowCount())
	}
}

func TestNew_MissingObjectFileErrors(t *testing.T) {
	dir := t.TempDir()
	basename := filepath.Join(dir, "missing")
	ctx := assembler.NewContext(basename + ".as")

	if _, err := New(ctx, basename); err == nil {
		t.Fatal("expected an error when the .ob file does not exist")
	}
}
