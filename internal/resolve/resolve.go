// Package resolve implements the second-pass resolver: entry
// resolution against the label table, deferred-fixup resolution
// against the instruction-word stream, and the extern usage audit.
package resolve

import (
	"fmt"

	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/encoder"
	"github.com/tenbit/word10asm/internal/symtab"
)

// EntryRef is one entries-output record: an entry identifier resolved
// to a label address.
type EntryRef struct {
	Address int
	Ident   string
}

// Result carries the second pass's output streams, appended to
// whatever externals-output records the first pass already produced.
type Result struct {
	Entries []EntryRef
	Externs []encoder.ExternRef
}

// Resolve runs entry resolution, deferred-fixup resolution, and the
// extern usage audit against the encoder's state, mutating its
// instruction-word stream in place for resolved fixups.
func Resolve(enc *encoder.Encoder, table *symtab.Table, diags *diag.List, filename string) Result {
	var result Result
	result.Externs = append(result.Externs, enc.Externs...)

	for _, ent := range table.Entries() {
		lbl, ok := table.Label(ent.Name)
		if !ok {
			diags.Add(diag.Diagnostic{
				Filename: filename,
				Line:     ent.Line,
				Column:   1,
				Kind:     diag.KindSemanticSecondPass,
				Message:  fmt.Sprintf("entry %q is not defined", ent.Name),
			})
			continue
		}
		result.Entries = append(result.Entries, EntryRef{Address: lbl.Address, Ident: ent.Name})
	}

	cursorIC := encoder.ICInit
	wordIndex := 0
	for _, fx := range enc.Fixups {
		for cursorIC < fx.IC {
			cursorIC++
			wordIndex++
		}

		if _, ok := table.Extern(fx.Ident); ok {
			table.MarkExternUsed(fx.Ident)
			enc.InstWords[wordIndex] = encoder.AREExtern
			result.Externs = append(result.Externs, encoder.ExternRef{Address: cursorIC, Ident: fx.Ident})
			continue
		}
		if lbl, ok := table.Label(fx.Ident); ok {
			enc.InstWords[wordIndex] = lbl.Address<<2 | encoder.ARERelocatable
			continue
		}
		diags.Add(diag.Diagnostic{
			Filename: filename,
			Line:     fx.Line,
			Column:   1,
			Kind:     diag.KindSemanticSecondPass,
			Message:  fmt.Sprintf("undeclared identifier %q", fx.Ident),
		})
	}

	for _, ext := range table.Externs() {
		if !ext.Used {
			diags.Add(diag.Diagnostic{
				Filename: filename,
				Line:     ext.Line,
				Column:   1,
				Kind:     diag.KindSemanticSecondPass,
				Message:  fmt.Sprintf("extern %q declared but never used", ext.Name),
			})
		}
	}

	return result
}
