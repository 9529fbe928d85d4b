// Package object reads and writes the assembler's three output file
// formats: the `.ob` word image, the `.ent` entries list, and the
// `.ext` externals list. It is deliberately small — the radix-32
// format is a trivial two-digit decode, not a format that benefits
// from a parsing library — grounded on the teacher's loader.go ("load
// a parsed program's words into addressable memory") but reading the
// object file back instead of a VM memory map.
package object

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tenbit/word10asm/internal/radix32"
)

// indent separates the two fields of every output line.
const indent = "\t"

// Image is the decoded contents of a `.ob` file: the instruction/data
// count header and the word stream starting at its base address.
type Image struct {
	InstCount int
	DataCount int
	BaseAddr  int
	Words     []int
}

// EntryRecord is one line of a `.ent` file.
type EntryRecord struct {
	Ident   string
	Address int
}

// ExternRecord is one line of a `.ext` file.
type ExternRecord struct {
	Ident   string
	Address int
}

// WriteOb writes the instruction-word stream followed by the
// data-word stream to path, with a header line giving their counts.
// baseAddr is the address of the first instruction word (IC_INIT).
func WriteOb(path string, baseAddr int, instWords, dataWords []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s%s%s\n", radix32.Encode(len(instWords)), indent, radix32.Encode(len(dataWords)))

	addr := baseAddr
	for _, word := range instWords {
		fmt.Fprintf(w, "%s%s%s\n", radix32.Encode(addr), indent, radix32.Encode(word))
		addr++
	}
	for _, word := range dataWords {
		fmt.Fprintf(w, "%s%s%s\n", radix32.Encode(addr), indent, radix32.Encode(word))
		addr++
	}
	return w.Flush()
}

// WriteRecords writes an `.ent` or `.ext` style file: one
// "identifier\taddress" line per record. If records is empty, path is
// removed instead (and not recreated) — per format, an empty
// declaration table produces no file.
func WriteRecords(path string, idents []string, addrs []int) error {
	if len(idents) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, ident := range idents {
		fmt.Fprintf(w, "%s\t%s\n", ident, radix32.Encode(addrs[i]))
	}
	return w.Flush()
}

// ReadOb parses a `.ob` file back into an Image, directly exercising
// the format's round-trip property: re-encoding Image.Words at
// successive addresses from BaseAddr must reproduce the file byte for
// byte.
func ReadOb(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("object: %s: empty file", path)
	}
	instCount, dataCount, err := parseHeaderLine(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("object: %s: %w", path, err)
	}

	img := &Image{InstCount: instCount, DataCount: dataCount}
	first := true
	for sc.Scan() {
		addr, word, err := parseWordLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("object: %s: %w", path, err)
		}
		if first {
			img.BaseAddr = addr
			first = false
		}
		img.Words = append(img.Words, word)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(img.Words) != instCount+dataCount {
		return nil, fmt.Errorf("object: %s: header declares %d words, found %d", path, instCount+dataCount, len(img.Words))
	}
	return img, nil
}

// ReadEnt parses a `.ent` file into its entry records. A missing file
// is reported as an empty slice, matching "no entries declared".
func ReadEnt(path string) ([]EntryRecord, error) {
	recs, err := readIdentAddrFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]EntryRecord, len(recs))
	for i, r := range recs {
		out[i] = EntryRecord(r)
	}
	return out, nil
}

// ReadExt parses a `.ext` file into its external reference records.
func ReadExt(path string) ([]ExternRecord, error) {
	recs, err := readIdentAddrFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]ExternRecord, len(recs))
	for i, r := range recs {
		out[i] = ExternRecord(r)
	}
	return out, nil
}

type identAddr struct {
	Ident   string
	Address int
}

func readIdentAddrFile(path string) ([]identAddr, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []identAddr
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("object: %s: malformed line %q", path, line)
		}
		addr, err := radix32.Decode(fields[1])
		if err != nil {
			return nil, fmt.Errorf("object: %s: %w", path, err)
		}
		out = append(out, identAddr{Ident: fields[0], Address: addr})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseHeaderLine(line string) (instCount, dataCount int, err error) {
	fields := strings.Split(line, indent)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed header line %q", line)
	}
	instCount, err = radix32.Decode(fields[0])
	if err != nil {
		return 0, 0, err
	}
	dataCount, err = radix32.Decode(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return instCount, dataCount, nil
}

func parseWordLine(line string) (addr, word int, err error) {
	fields := strings.Split(line, indent)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed word line %q", line)
	}
	addr, err = radix32.Decode(fields[0])
	if err != nil {
		return 0, 0, err
	}
	word, err = radix32.Decode(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return addr, word, nil
}
