// Package tui implements a read-only symbol/object browser, opened by
// the CLI's -symbols flag after a successful assembly. It never
// mutates assembler state — there is no execution model in this
// domain, so there is nothing to step, break on, or watch.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tenbit/word10asm/internal/assembler"
	"github.com/tenbit/word10asm/internal/ast"
	"github.com/tenbit/word10asm/internal/object"
	"github.com/tenbit/word10asm/internal/radix32"
)

// TUI is a three-pane tview application: labels on the left, the
// decoded instruction/data word stream in the center, and the
// entries/externs lists (with their used-flags) at the bottom.
type TUI struct {
	App  *tview.Application
	Flex *tview.Flex

	LabelsView  *tview.Table
	WordsView   *tview.Table
	RecordsView *tview.Table

	ctx      *assembler.Context
	basename string
	image    *object.Image
}

// New builds the TUI for an already-assembled, successfully-written
// Context. basename is the path passed to Context.WriteOutputs, used
// to re-read the emitted .ob file through internal/object so the
// browser exercises the same round-trip decoder a downstream linker
// would use.
func New(ctx *assembler.Context, basename string) (*TUI, error) {
	img, err := object.ReadOb(basename + ".ob")
	if err != nil {
		return nil, fmt.Errorf("tui: read object file: %w", err)
	}

	t := &TUI{
		App:      tview.NewApplication(),
		ctx:      ctx,
		basename: basename,
		image:    img,
	}

	t.initializeViews()
	t.buildLayout()
	t.populate()
	t.setupKeyBindings()

	return t, nil
}

func (t *TUI) initializeViews() {
	t.LabelsView = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	t.LabelsView.SetBorder(true).SetTitle(" Labels ")

	t.WordsView = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	t.WordsView.SetBorder(true).SetTitle(fmt.Sprintf(" Object: %s.ob ", t.basenameOrDash()))

	t.RecordsView = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	t.RecordsView.SetBorder(true).SetTitle(" Entries / Externs ")
}

func (t *TUI) basenameOrDash() string {
	if t.basename == "" {
		return "-"
	}
	return t.basename
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LabelsView, 0, 1, true).
		AddItem(t.WordsView, 0, 2, false)

	t.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, true).
		AddItem(t.RecordsView, 0, 1, false)
}

// setupKeyBindings wires Tab/Shift+Tab to cycle pane focus and Ctrl+C
// to quit, matching the teacher's global-input-capture convention.
func (t *TUI) setupKeyBindings() {
	panes := []tview.Primitive{t.LabelsView, t.WordsView, t.RecordsView}
	current := 0

	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyTab:
			current = (current + 1) % len(panes)
			t.App.SetFocus(panes[current])
			return nil
		case tcell.KeyBacktab:
			current = (current - 1 + len(panes)) % len(panes)
			t.App.SetFocus(panes[current])
			return nil
		}
		return event
	})
}

func (t *TUI) populate() {
	t.populateLabels()
	t.populateWords()
	t.populateRecords()
}

func (t *TUI) populateLabels() {
	header := []string{"Label", "Address", "Category"}
	for col, h := range header {
		t.LabelsView.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}

	for row, l := range t.ctx.Table.Labels() {
		category := "instruction"
		if l.Category == ast.CategoryData {
			category = "data"
		}
		t.LabelsView.SetCell(row+1, 0, tview.NewTableCell(l.Name))
		t.LabelsView.SetCell(row+1, 1, tview.NewTableCell(fmt.Sprintf("%d (%s)", l.Address, radix32.Encode(l.Address))))
		t.LabelsView.SetCell(row+1, 2, tview.NewTableCell(category))
	}
}

func (t *TUI) populateWords() {
	header := []string{"Address", "Radix32", "Value"}
	for col, h := range header {
		t.WordsView.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}

	for i, w := range t.image.Words {
		addr := t.image.BaseAddr + i
		t.WordsView.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprintf("%d", addr)))
		t.WordsView.SetCell(i+1, 1, tview.NewTableCell(radix32.Encode(addr)))
		t.WordsView.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("%d (%s)", w, radix32.Encode(w))))
	}
}

func (t *TUI) populateRecords() {
	header := []string{"Kind", "Ident", "Address", "Used"}
	for col, h := range header {
		t.RecordsView.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}

	row := 1
	for _, e := range t.ctx.Entries {
		t.RecordsView.SetCell(row, 0, tview.NewTableCell("entry"))
		t.RecordsView.SetCell(row, 1, tview.NewTableCell(e.Ident))
		t.RecordsView.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", e.Address)))
		t.RecordsView.SetCell(row, 3, tview.NewTableCell("-"))
		row++
	}
	for _, e := range t.ctx.Externs {
		used := "no"
		if ext, ok := t.ctx.Table.Extern(e.Ident); ok && ext.Used {
			used = "yes"
		}
		t.RecordsView.SetCell(row, 0, tview.NewTableCell("extern"))
		t.RecordsView.SetCell(row, 1, tview.NewTableCell(e.Ident))
		t.RecordsView.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", e.Address)))
		t.RecordsView.SetCell(row, 3, tview.NewTableCell(used))
		row++
	}
}

// Run starts the TUI event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	t.App.SetFocus(t.LabelsView)
	return t.App.SetRoot(t.Flex, true).Run()
}
