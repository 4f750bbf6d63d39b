// ABOUTME: Tests for checkpoint persistence
// ABOUTME: Verifies path derivation, atomic save and load, staleness, and locking

package checkpoint

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/transcript-tidy/internal/models"
)

func TestPathFor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "txt file",
			input: "/tmp/interview.txt",
			want:  "/tmp/.interview.checkpoint.json",
		},
		{
			name:  "no extension",
			input: "/data/transcript",
			want:  "/data/.transcript.checkpoint.json",
		},
		{
			name:  "relative path",
			input: "talk.md",
			want:  ".talk.checkpoint.json",
		},
		{
			name:  "dotted stem",
			input: "/tmp/ep.01.txt",
			want:  "/tmp/.ep.01.checkpoint.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathFor(tt.input); got != tt.want {
				t.Errorf("PathFor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")
	store := NewStore(input)

	cp := models.NewCheckpoint(input, "anthropic", "claude-sonnet-4-20250514", 9000, 500, 3)
	cp.MarkCleaned(0, "first cleaned chunk")

	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil for a saved checkpoint")
	}
	if loaded.RunID != cp.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, cp.RunID)
	}
	if loaded.ChunkSize != 9000 || loaded.Overlap != 500 || loaded.TotalChunks != 3 {
		t.Errorf("parameters = (%d, %d, %d), want (9000, 500, 3)",
			loaded.ChunkSize, loaded.Overlap, loaded.TotalChunks)
	}
	if got := loaded.Cleaned[0]; got != "first cleaned chunk" {
		t.Errorf("Cleaned[0] = %q, want %q", got, "first cleaned chunk")
	}
}

func TestStore_LoadMissingReturnsNil(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nothing.txt"))

	cp, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cp != nil {
		t.Error("Load() should return nil for a missing checkpoint")
	}
}

func TestStore_LoadCorruptFails(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")
	store := NewStore(input)

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("Load() should fail on a corrupt checkpoint")
	}
}

func TestStore_SaveIsAtomic(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")
	store := NewStore(input)

	cp := models.NewCheckpoint(input, "anthropic", "claude-sonnet-4-20250514", 100, 10, 2)
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	cp.MarkCleaned(0, "chunk zero")
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// No temp file is left behind and the target parses cleanly.
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("temp file %s should not remain after Save()", entry.Name())
		}
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var parsed models.Checkpoint
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("saved checkpoint is not valid JSON: %v", err)
	}
	if parsed.Cleaned[0] != "chunk zero" {
		t.Errorf("Cleaned[0] = %q, want %q", parsed.Cleaned[0], "chunk zero")
	}
}

func TestStore_Resume(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")
	store := NewStore(input)

	cp := models.NewCheckpoint(input, "anthropic", "claude-sonnet-4-20250514", 9000, 500, 3)
	cp.MarkCleaned(0, "done")
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("matching parameters resume", func(t *testing.T) {
		resumed, err := store.Resume(9000, 500, 3)
		if err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if resumed == nil || !resumed.Done(0) {
			t.Error("Resume() should return the saved progress")
		}
	})

	t.Run("changed chunk size is stale", func(t *testing.T) {
		_, err := store.Resume(8000, 500, 3)
		if !errors.Is(err, ErrStale) {
			t.Errorf("Resume() error = %v, want ErrStale", err)
		}
	})

	t.Run("changed overlap is stale", func(t *testing.T) {
		_, err := store.Resume(9000, 250, 3)
		if !errors.Is(err, ErrStale) {
			t.Errorf("Resume() error = %v, want ErrStale", err)
		}
	})

	t.Run("changed chunk count is stale", func(t *testing.T) {
		_, err := store.Resume(9000, 500, 5)
		if !errors.Is(err, ErrStale) {
			t.Errorf("Resume() error = %v, want ErrStale", err)
		}
	})

	t.Run("missing checkpoint resumes fresh", func(t *testing.T) {
		other := NewStore(filepath.Join(t.TempDir(), "other.txt"))
		resumed, err := other.Resume(9000, 500, 3)
		if err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if resumed != nil {
			t.Error("Resume() should return nil when no checkpoint exists")
		}
	})
}

func TestStore_Clear(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")
	store := NewStore(input)

	cp := models.NewCheckpoint(input, "anthropic", "claude-sonnet-4-20250514", 100, 10, 1)
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("checkpoint file should be gone after Clear()")
	}

	// Clearing again is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
}

func TestStore_AcquireBlocksSecondHolder(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")

	first := NewStore(input)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer first.Release()

	second := NewStore(input)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Error("second Acquire() on the same input should fail")
	}
}

func TestStore_ReleaseAllowsReacquire(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.txt")

	store := NewStore(input)
	if err := store.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	store.Release()

	again := NewStore(input)
	if err := again.Acquire(); err != nil {
		t.Errorf("Acquire() after Release() error = %v", err)
	}
	again.Release()
}
