package ingest

import (
	"strings"

	"github.com/lekhika-tools/shabda/pkg/devanagari"
)

// ExtractCandidates scans text and returns the maximal runs of
// Devanagari-block characters, in order. Everything else (whitespace,
// punctuation, Latin text, digits) acts purely as a separator and is
// discarded. No validation happens here; a candidate may still be
// phonetically malformed.
func ExtractCandidates(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if devanagari.InBlock(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
