// Package assembler drives the full two-pass pipeline for one source
// file: line reading, lexing, parsing, first-pass encoding, IC offset
// fixup, second-pass resolution, and object emission. It is the single
// entry point the CLI, the watch API server, and the TUI all call
// into; it has no knowledge of any of them (§3, §5 of the project's
// component design).
package assembler

import (
	"fmt"
	"io"
	"os"

	"github.com/tenbit/word10asm/internal/diag"
	"github.com/tenbit/word10asm/internal/encoder"
	"github.com/tenbit/word10asm/internal/lexer"
	"github.com/tenbit/word10asm/internal/object"
	"github.com/tenbit/word10asm/internal/parser"
	"github.com/tenbit/word10asm/internal/resolve"
	"github.com/tenbit/word10asm/internal/symtab"
)

// Context is the per-file assembler state: IC, DC, the error flag, the
// three symbol tables, the two word streams, and the resolved
// entries/externs output streams. A fresh Context is created per file
// and fully discarded at file end; nothing is shared across files.
type Context struct {
	Filename string

	Table *symtab.Table
	Diags *diag.List
	Enc   *encoder.Encoder

	Entries []resolve.EntryRef
	Externs []encoder.ExternRef

	Source *diag.SourceCache

	resolved bool
}

// NewContext creates an empty per-file Context.
func NewContext(filename string) *Context {
	table := symtab.New()
	diags := &diag.List{}
	return &Context{
		Filename: filename,
		Table:    table,
		Diags:    diags,
		Enc:      encoder.New(table, diags, filename),
	}
}

// Assemble runs the full pipeline over r's lines.
func (c *Context) Assemble(r io.Reader) {
	var lines []string
	lr := lexer.NewLineReader(r)
	for {
		line, lineNum, status := lr.ReadLine()
		if status == lexer.StatusEOF {
			break
		}
		for len(lines) < lineNum-1 {
			lines = append(lines, "") // comment or blank line skipped by the reader
		}
		lines = append(lines, line)
		if status == lexer.StatusTooLong {
			c.Diags.Add(diag.Diagnostic{
				Filename: c.Filename,
				Line:     lineNum,
				Column:   1,
				Kind:     diag.KindLexical,
				Message:  fmt.Sprintf("line exceeds maximum length of %d characters", lexer.MaxLineLength),
			})
			continue
		}

		tokens, lexErr := lexer.TokenizeLine(line, lineNum, c.Filename)
		if lexErr != nil {
			c.Diags.Add(*lexErr)
			continue
		}

		p := parser.New(tokens, lineNum, c.Filename, c.Table, c.Diags)
		result := p.Parse()
		if result == nil {
			continue
		}
		c.Enc.Encode(lineNum, result)
	}

	c.Source = diag.NewSourceCacheFromLines(c.Filename, lines)

	c.Enc.ApplyICOffset()
	res := resolve.Resolve(c.Enc, c.Table, c.Diags, c.Filename)
	c.Entries = res.Entries
	c.Externs = res.Externs
	c.resolved = true
}

// AssembleFile opens "<basename>.as", assembles it, and — unless the
// sticky error flag is set — writes "<basename>.ob/.ent/.ext". It
// reports the open failure (missing or overlong source) as a single
// diagnostic rather than an error return, matching spec.md §6 ("error
// and skip if missing or overlong").
func AssembleFile(basename string) *Context {
	path := basename + ".as"
	c := NewContext(path)

	f, err := os.Open(path) // #nosec G304 -- basename is an operator-supplied CLI argument
	if err != nil {
		c.Diags.Add(diag.Diagnostic{Filename: path, Line: 0, Column: 1, Kind: diag.KindResource, Message: fmt.Sprintf("cannot open source file: %v", err)})
		return c
	}
	defer f.Close()

	c.Assemble(f)
	if err := c.WriteOutputs(basename); err != nil {
		c.Diags.Add(diag.Diagnostic{Filename: path, Line: 0, Column: 1, Kind: diag.KindResource, Message: fmt.Sprintf("cannot write output files: %v", err)})
	}
	return c
}

// WriteOutputs emits the three object files for basename. It is a
// no-op (not an error) when the sticky error flag is set, per spec.md
// §4.8 ("skipped only if the sticky error flag is set").
func (c *Context) WriteOutputs(basename string) error {
	if c.Diags.Failed() {
		return nil
	}

	if err := object.WriteOb(basename+".ob", encoder.ICInit, c.Enc.InstWords, c.Enc.DataWords); err != nil {
		return err
	}

	entIdents := make([]string, len(c.Entries))
	entAddrs := make([]int, len(c.Entries))
	for i, e := range c.Entries {
		entIdents[i] = e.Ident
		entAddrs[i] = e.Address
	}
	if err := object.WriteRecords(basename+".ent", entIdents, entAddrs); err != nil {
		return err
	}

	extIdents := make([]string, len(c.Externs))
	extAddrs := make([]int, len(c.Externs))
	for i, e := range c.Externs {
		extIdents[i] = e.Ident
		extAddrs[i] = e.Address
	}
	return object.WriteRecords(basename+".ext", extIdents, extAddrs)
}

// FinalIC and FinalDC report the file's final instruction/data
// counters, useful for the CLI's -verbose summary line.
func (c *Context) FinalIC() int { return c.Enc.IC }
func (c *Context) FinalDC() int { return c.Enc.DC }
