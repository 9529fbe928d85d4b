// Package symtab holds the per-file label, entry, and extern tables.
// During the first pass the parser records entries and externs and the
// encoder records labels; the resolver consults all three in the
// second pass.
package symtab

import "github.com/tenbit/word10asm/internal/ast"

// Label is a named source location, resolved to an instruction or
// data address. Identifiers are unique across the table; registering
// a duplicate is an error the caller must check for via Label first.
type Label struct {
	Name     string
	Address  int
	Line     int
	Category ast.StatementCategory
}

// Entry is a `.entry` declaration.
type Entry struct {
	Name string
	Line int
}

// Extern is a `.extern` declaration. Used is set once the extern is
// referenced as an operand (first pass) or resolved against a
// deferred fixup (second pass).
type Extern struct {
	Name string
	Line int
	Used bool
}

// Table aggregates the three per-file symbol collections. Iteration
// order of the accessor slices is label/entry/extern declaration
// order, not map order, since the order of entries/externs output is
// user-visible (spec §5 "Ordering").
type Table struct {
	labels     map[string]*Label
	labelOrder []string

	entries     map[string]*Entry
	entryOrder  []string

	externs     map[string]*Extern
	externOrder []string
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		labels:  make(map[string]*Label),
		entries: make(map[string]*Entry),
		externs: make(map[string]*Extern),
	}
}

// DefineLabel registers a new label. The caller is responsible for
// rejecting duplicates and extern cross-declarations before calling.
func (t *Table) DefineLabel(l Label) {
	t.labels[l.Name] = &l
	t.labelOrder = append(t.labelOrder, l.Name)
}

// Label looks up a label by name.
func (t *Table) Label(name string) (*Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// Labels returns all labels in declaration order.
func (t *Table) Labels() []*Label {
	out := make([]*Label, 0, len(t.labelOrder))
	for _, n := range t.labelOrder {
		out = append(out, t.labels[n])
	}
	return out
}

// DefineEntry registers a new entry declaration.
func (t *Table) DefineEntry(e Entry) {
	t.entries[e.Name] = &e
	t.entryOrder = append(t.entryOrder, e.Name)
}

// Entry looks up an entry declaration by name.
func (t *Table) Entry(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Entries returns all entry declarations in declaration order.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, 0, len(t.entryOrder))
	for _, n := range t.entryOrder {
		out = append(out, t.entries[n])
	}
	return out
}

// DefineExtern registers a new extern declaration.
func (t *Table) DefineExtern(e Extern) {
	t.externs[e.Name] = &e
	t.externOrder = append(t.externOrder, e.Name)
}

// Extern looks up an extern declaration by name.
func (t *Table) Extern(name string) (*Extern, bool) {
	e, ok := t.externs[name]
	return e, ok
}

// Externs returns all extern declarations in declaration order.
func (t *Table) Externs() []*Extern {
	out := make([]*Extern, 0, len(t.externOrder))
	for _, n := range t.externOrder {
		out = append(out, t.externs[n])
	}
	return out
}

// MarkExternUsed sets the used flag on a declared extern.
func (t *Table) MarkExternUsed(name string) {
	if e, ok := t.externs[name]; ok {
		e.Used = true
	}
}
