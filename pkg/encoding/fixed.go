// Package encoding provides text decoding utilities for fixed-width header fields.
package encoding

import (
	"bytes"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// notPrintable matches runes outside the printable ASCII range.
var notPrintable = runes.Predicate(func(r rune) bool {
	return r < 0x20 || r > 0x7e
})

// ASCIIToString strips everything that is not printable ASCII.
// Invalid UTF-8 bytes are dropped rather than replaced.
func ASCIIToString(data []byte) string {
	result, _, err := transform.Bytes(runes.Remove(notPrintable), data)
	if err != nil {
		// Fall back to a plain byte filter
		out := make([]byte, 0, len(data))
		for _, b := range data {
			if b >= 0x20 && b <= 0x7e {
				out = append(out, b)
			}
		}
		return string(out)
	}
	return string(result)
}

// TrimNullBytes returns data up to (not including) the first null byte.
func TrimNullBytes(data []byte) []byte {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return data[:i]
	}
	return data
}

// FixedString decodes a fixed-size, null-terminated ASCII field.
// Handles missing terminators and ignores bytes that are not printable ASCII.
func FixedString(data []byte) string {
	return ASCIIToString(TrimNullBytes(data))
}

// ToFixedString encodes s into a null-padded field of the given size.
// The result always keeps room for the terminator.
func ToFixedString(s string, size int) []byte {
	result := make([]byte, size)
	if size == 0 {
		return result
	}
	copy(result[:size-1], s)
	return result
}
