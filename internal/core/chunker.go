// ABOUTME: Chunker cuts normalized transcripts into fixed-size overlapping segments
// ABOUTME: Boundaries are pure rune arithmetic so repeat runs always cut identically
package core

import (
	"fmt"

	"github.com/harper/transcript-tidy/internal/models"
)

// Chunker splits normalized text into overlapping chunks
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker after validating the chunk parameters
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap cannot be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts text into chunks of at most the configured size, measured in
// runes. Every chunk after the first starts exactly overlap runes before
// the previous chunk ends, so neighbours share that many runes. The final
// chunk simply runs to the end of the text and may be shorter. Text that
// fits in one chunk comes back as a single chunk.
func (c *Chunker) Split(text string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	for {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, models.Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
		})
		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}
	return chunks
}

// Size returns the configured chunk size in runes
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap in runes
func (c *Chunker) Overlap() int {
	return c.overlap
}
