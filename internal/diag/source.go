package diag

import (
	"bufio"
	"os"
)

// SourceCache retains every line of a source file in memory so that a
// second-pass diagnostic referring to an earlier line does not need to
// reopen the file (spec §9 "Diagnostic reopens": total file size is
// bounded by MAX_LINE x line-count and modest in practice).
//
// If the requested line is not held in the cache, Line falls back to
// reopening the file by name, matching the original assembler's
// print_tok_error_assm behavior. A nil cache yields "".
type SourceCache struct {
	filename string
	lines    []string
}

// NewSourceCache reads filename's lines eagerly.
func NewSourceCache(filename string) (*SourceCache, error) {
	f, err := os.Open(filename) // #nosec G304 -- filename is a user-supplied assembler source path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := &SourceCache{filename: filename}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256), 4096)
	for scanner.Scan() {
		sc.lines = append(sc.lines, scanner.Text())
	}
	return sc, scanner.Err()
}

// NewSourceCacheFromLines builds a cache from lines already read by the
// caller (the assembler's first pass reads every line once regardless
// of whether it came from a file or an in-memory reader), so the cache
// can be populated without a second, filename-dependent read.
func NewSourceCacheFromLines(filename string, lines []string) *SourceCache {
	return &SourceCache{filename: filename, lines: lines}
}

// Line returns the 1-based line's text, reopening the source file if
// the cache does not already hold it.
func (sc *SourceCache) Line(n int) string {
	if sc != nil && n >= 1 && n <= len(sc.lines) {
		return sc.lines[n-1]
	}
	if sc == nil {
		return ""
	}
	reopened, err := NewSourceCache(sc.filename)
	if err != nil {
		return ""
	}
	if n < 1 || n > len(reopened.lines) {
		return ""
	}
	return reopened.lines[n-1]
}
