// Package radix32 implements the assembler's bit-exact two-digit
// base-32 encoding used for every address and word in the object,
// entries, and externals output files.
package radix32

import "fmt"

// alphabet is the fixed digit sequence, index 0..31. It is the
// bit-exact interface to the output format and must never change.
const alphabet = "!@#$%^&*<>abcdefghijklmnopqrstuv"

var digitValue = buildDigitValue()

func buildDigitValue() map[byte]int {
	m := make(map[byte]int, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = i
	}
	return m
}

// Encode renders a 10-bit value (0..1023) as exactly two radix-32
// digits, high digit first.
func Encode(value int) string {
	hi := (value >> 5) & 0x1F
	lo := value & 0x1F
	return string([]byte{alphabet[hi], alphabet[lo]})
}

// Decode parses a two-digit radix-32 string back into its value.
func Decode(s string) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("radix32: %q is not a two-digit value", s)
	}
	hi, ok := digitValue[s[0]]
	if !ok {
		return 0, fmt.Errorf("radix32: invalid digit %q", s[0])
	}
	lo, ok := digitValue[s[1]]
	if !ok {
		return 0, fmt.Errorf("radix32: invalid digit %q", s[1])
	}
	return hi<<5 | lo, nil
}
