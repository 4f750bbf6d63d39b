// ABOUTME: Tests for Checkpoint model
// ABOUTME: Verifies validation, parameter matching, and progress tracking

package models

import (
	"testing"
)

func TestCheckpoint_Validate(t *testing.T) {
	tests := []struct {
		name       string
		checkpoint Checkpoint
		wantErr    bool
	}{
		{
			name: "valid checkpoint",
			checkpoint: Checkpoint{
				ChunkSize:   9000,
				Overlap:     500,
				TotalChunks: 3,
				Cleaned:     map[int]string{0: "first", 1: "second"},
			},
			wantErr: false,
		},
		{
			name: "zero chunk size",
			checkpoint: Checkpoint{
				ChunkSize:   0,
				Overlap:     0,
				TotalChunks: 1,
			},
			wantErr: true,
		},
		{
			name: "negative overlap",
			checkpoint: Checkpoint{
				ChunkSize:   100,
				Overlap:     -1,
				TotalChunks: 1,
			},
			wantErr: true,
		},
		{
			name: "overlap equal to chunk size",
			checkpoint: Checkpoint{
				ChunkSize:   100,
				Overlap:     100,
				TotalChunks: 1,
			},
			wantErr: true,
		},
		{
			name: "cleaned index out of range",
			checkpoint: Checkpoint{
				ChunkSize:   100,
				Overlap:     10,
				TotalChunks: 2,
				Cleaned:     map[int]string{5: "orphan"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.checkpoint.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckpoint_Matches(t *testing.T) {
	cp := NewCheckpoint("talk.txt", "anthropic", "claude-sonnet-4-20250514", 9000, 500, 3)

	if !cp.Matches(9000, 500, 3) {
		t.Error("expected checkpoint to match its own parameters")
	}
	if cp.Matches(8000, 500, 3) {
		t.Error("expected chunk size change to invalidate checkpoint")
	}
	if cp.Matches(9000, 400, 3) {
		t.Error("expected overlap change to invalidate checkpoint")
	}
	if cp.Matches(9000, 500, 4) {
		t.Error("expected chunk count change to invalidate checkpoint")
	}
}

func TestCheckpoint_Progress(t *testing.T) {
	cp := NewCheckpoint("talk.txt", "anthropic", "claude-sonnet-4-20250514", 100, 10, 3)

	if cp.IsComplete() {
		t.Error("fresh checkpoint should not be complete")
	}
	if got := cp.CompletedCount(); got != 0 {
		t.Errorf("CompletedCount() = %d, want 0", got)
	}

	cp.MarkCleaned(0, "first chunk")
	cp.MarkCleaned(2, "third chunk")

	if !cp.Done(0) {
		t.Error("chunk 0 should be done")
	}
	if cp.Done(1) {
		t.Error("chunk 1 should not be done")
	}

	pending := cp.PendingIndices()
	if len(pending) != 1 || pending[0] != 1 {
		t.Errorf("PendingIndices() = %v, want [1]", pending)
	}

	cp.MarkCleaned(1, "second chunk")
	if !cp.IsComplete() {
		t.Error("checkpoint should be complete after all chunks cleaned")
	}

	got := cp.CleanedInOrder()
	want := []string{"first chunk", "second chunk", "third chunk"}
	if len(got) != len(want) {
		t.Fatalf("CleanedInOrder() returned %d texts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanedInOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCheckpoint_EmptyInputIsComplete(t *testing.T) {
	cp := NewCheckpoint("empty.txt", "anthropic", "claude-sonnet-4-20250514", 9000, 500, 0)
	if !cp.IsComplete() {
		t.Error("checkpoint with zero chunks should be complete")
	}
	if pending := cp.PendingIndices(); len(pending) != 0 {
		t.Errorf("PendingIndices() = %v, want empty", pending)
	}
}

func TestNewCheckpoint_UniqueRunIDs(t *testing.T) {
	a := NewCheckpoint("talk.txt", "openai", "gpt-4o", 9000, 500, 1)
	b := NewCheckpoint("talk.txt", "openai", "gpt-4o", 9000, 500, 1)
	if a.RunID == b.RunID {
		t.Errorf("expected distinct run IDs, both were %q", a.RunID)
	}
	if a.RunID == "" {
		t.Error("run ID should not be empty")
	}
}
