// ABOUTME: Chunk represents one fixed-size segment of a normalized transcript
// ABOUTME: Carries rune offsets so neighbouring chunks expose their shared overlap
package models

import "fmt"

// Chunk is a contiguous slice of the normalized transcript. Offsets are
// rune indices into the normalized text, with End exclusive. Every chunk
// after the first begins inside the previous chunk, so the first runes of
// its Text duplicate the tail of the chunk before it.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Runes returns the chunk length in runes.
func (c Chunk) Runes() int {
	return c.End - c.Start
}

// String describes the chunk for logs and previews.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d [%d:%d]", c.Index, c.Start, c.End)
}
