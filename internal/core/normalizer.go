// ABOUTME: Normalizer flattens raw transcript text into a single clean line
// ABOUTME: Blank lines disappear and whitespace runs collapse to single spaces
package core

import "strings"

// Normalize collapses every run of whitespace in a raw transcript to a
// single space and trims the ends. Blank lines vanish along the way. The
// result is one stable rune stream for the chunker, so the same input
// always yields the same chunk boundaries.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
