// ABOUTME: Checkpoint captures resumable progress for a single cleaning run
// ABOUTME: Stores chunk parameters plus every cleaned chunk keyed by index
package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Checkpoint records which chunks of an input file have already been
// cleaned, so an interrupted run can resume without repeating service
// calls. A checkpoint is only meaningful for the exact chunk parameters
// it was created with; chunk boundaries move when the parameters change.
type Checkpoint struct {
	RunID       string         `json:"run_id"`
	InputFile   string         `json:"input_file"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`
	ChunkSize   int            `json:"chunk_size"`
	Overlap     int            `json:"overlap"`
	TotalChunks int            `json:"total_chunks"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Cleaned     map[int]string `json:"cleaned"`
}

// NewCheckpoint creates an empty checkpoint for a fresh run
func NewCheckpoint(inputFile, provider, model string, chunkSize, overlap, totalChunks int) *Checkpoint {
	now := time.Now()
	return &Checkpoint{
		RunID:       generateRunID(),
		InputFile:   inputFile,
		Provider:    provider,
		Model:       model,
		ChunkSize:   chunkSize,
		Overlap:     overlap,
		TotalChunks: totalChunks,
		CreatedAt:   now,
		UpdatedAt:   now,
		Cleaned:     make(map[int]string),
	}
}

// generateRunID creates a unique run identifier
func generateRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// Validate checks if the Checkpoint has consistent data
func (c *Checkpoint) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap cannot be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap %d must be smaller than chunk size %d", c.Overlap, c.ChunkSize)
	}
	if c.TotalChunks < 0 {
		return fmt.Errorf("total chunks cannot be negative, got %d", c.TotalChunks)
	}
	for idx := range c.Cleaned {
		if idx < 0 || idx >= c.TotalChunks {
			return fmt.Errorf("cleaned index %d outside range [0, %d)", idx, c.TotalChunks)
		}
	}
	return nil
}

// Matches reports whether the checkpoint was produced with the given
// chunk parameters and chunk count.
func (c *Checkpoint) Matches(chunkSize, overlap, totalChunks int) bool {
	return c.ChunkSize == chunkSize && c.Overlap == overlap && c.TotalChunks == totalChunks
}

// MarkCleaned stores the cleaned text for a chunk and bumps UpdatedAt
func (c *Checkpoint) MarkCleaned(index int, text string) {
	if c.Cleaned == nil {
		c.Cleaned = make(map[int]string)
	}
	c.Cleaned[index] = text
	c.UpdatedAt = time.Now()
}

// Done reports whether a chunk has already been cleaned
func (c *Checkpoint) Done(index int) bool {
	_, ok := c.Cleaned[index]
	return ok
}

// CompletedCount returns how many chunks have been cleaned
func (c *Checkpoint) CompletedCount() int {
	return len(c.Cleaned)
}

// IsComplete reports whether every chunk has been cleaned
func (c *Checkpoint) IsComplete() bool {
	return len(c.Cleaned) >= c.TotalChunks
}

// PendingIndices returns the chunk indices still waiting to be cleaned,
// in ascending order.
func (c *Checkpoint) PendingIndices() []int {
	var pending []int
	for i := 0; i < c.TotalChunks; i++ {
		if !c.Done(i) {
			pending = append(pending, i)
		}
	}
	return pending
}

// CleanedInOrder returns the cleaned chunk texts sorted by index. Call
// only once IsComplete reports true; missing indices are skipped.
func (c *Checkpoint) CleanedInOrder() []string {
	indices := make([]int, 0, len(c.Cleaned))
	for idx := range c.Cleaned {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	texts := make([]string, 0, len(indices))
	for _, idx := range indices {
		texts = append(texts, c.Cleaned[idx])
	}
	return texts
}
