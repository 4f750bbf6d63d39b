// ABOUTME: Store persists run checkpoints as hidden JSON files beside the input
// ABOUTME: Writes are atomic and a file lock keeps concurrent runs off one input
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/harper/transcript-tidy/internal/models"
	"github.com/harper/transcript-tidy/internal/util"
)

// ErrStale means an existing checkpoint was produced with different chunk
// parameters, so its chunk indices no longer line up with this run.
var ErrStale = errors.New("checkpoint does not match current chunk parameters")

// Store reads and writes the checkpoint for one input file
type Store struct {
	path string
	lock *flock.Flock
}

// PathFor returns the checkpoint path for an input file: a hidden JSON
// file in the same directory, named after the input's stem.
func PathFor(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf(".%s.checkpoint.json", stem))
}

// NewStore creates a Store for the given input file
func NewStore(inputPath string) *Store {
	path := PathFor(inputPath)
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the checkpoint file path
func (s *Store) Path() string {
	return s.path
}

// Acquire takes the run lock for this input, failing fast when another
// process already holds it.
func (s *Store) Acquire() error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run is already processing this input (lock file %s)", s.lock.Path())
	}
	return nil
}

// Release drops the run lock and removes the lock file
func (s *Store) Release() {
	_ = s.lock.Unlock()
	_ = os.Remove(s.lock.Path())
}

// Load reads the checkpoint if one exists. A missing file returns nil with
// no error; a corrupt or inconsistent file returns an error.
func (s *Store) Load() (*models.Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp models.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", s.path, err)
	}
	if cp.Cleaned == nil {
		cp.Cleaned = make(map[int]string)
	}
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkpoint %s: %w", s.path, err)
	}
	return &cp, nil
}

// Resume loads the checkpoint and verifies it matches the current chunk
// parameters. A parameter mismatch returns an error wrapping ErrStale. A
// missing checkpoint returns nil with no error.
func (s *Store) Resume(chunkSize, overlap, totalChunks int) (*models.Checkpoint, error) {
	cp, err := s.Load()
	if err != nil {
		return nil, err
	}
	if cp == nil {
		return nil, nil
	}
	if !cp.Matches(chunkSize, overlap, totalChunks) {
		return nil, fmt.Errorf(
			"%w: checkpoint has size=%d overlap=%d chunks=%d, this run wants size=%d overlap=%d chunks=%d",
			ErrStale, cp.ChunkSize, cp.Overlap, cp.TotalChunks, chunkSize, overlap, totalChunks)
	}
	return cp, nil
}

// Save writes the checkpoint atomically. A crash mid-write leaves the
// previous checkpoint untouched.
func (s *Store) Save(cp *models.Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := util.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}
