// Package hexutil provides lookup-table hex encoding for digest comparison.
package hexutil

import "strings"

// HexLower is the lowercase hex alphabet used by Encode.
const HexLower = "0123456789abcdef"

// Encode returns the lowercase hex form of b.
func Encode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = HexLower[c>>4]
		out[i*2+1] = HexLower[c&0x0f]
	}
	return string(out)
}

// Normalize trims whitespace and lowercases a digest read from reference data
// so it compares equal to Encode output.
func Normalize(digest string) string {
	return strings.ToLower(strings.TrimSpace(digest))
}

// Equal reports whether two hex digests are the same, ignoring case and
// surrounding whitespace. Empty digests never match.
func Equal(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	return a != "" && a == b
}
