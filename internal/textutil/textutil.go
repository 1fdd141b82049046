// Package textutil normalizes document text before it crosses the LSP
// boundary. LSP positions are UTF-16 code unit offsets, not byte or rune
// offsets, and comparing names case-insensitively needs real Unicode
// folding rather than ASCII-only lowering.
package textutil

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var caseFolder = cases.Fold()

// NormalizeNFC puts text into Unicode Normalization Form C before any
// byte-offset math is done on it, so composed and decomposed forms of
// the same glyph don't produce different UTF-16 widths.
func NormalizeNFC(text string) string {
	return norm.NFC.String(text)
}

// UTF16Len returns the number of UTF-16 code units text would occupy on
// the wire, by round-tripping it through the UTF-16 encoder rather than
// hand-rolling surrogate-pair arithmetic.
func UTF16Len(text string) (int, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.String(text)
	if err != nil {
		return 0, err
	}
	return len(out) / 2, nil
}

// FoldCase applies full Unicode case folding, used by search_type's
// caseSensitive=false matching instead of strings.ToLower.
func FoldCase(s string) string {
	return caseFolder.String(s)
}

// EqualFold reports whether a and b are equal under Unicode case
// folding.
func EqualFold(a, b string) bool {
	return FoldCase(a) == FoldCase(b)
}
