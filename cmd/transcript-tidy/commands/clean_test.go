// ABOUTME: Tests for the root cleaning command
// ABOUTME: Exercises flag handling and every error path short of a live service call

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/transcript-tidy/internal/checkpoint"
	"github.com/harper/transcript-tidy/internal/llm"
	"github.com/harper/transcript-tidy/internal/models"
)

// newCleanTestRun isolates a test from the user's real config and keys
// and returns an input file holding text.
func newCleanTestRun(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TRANSCRIPT_TIDY_CONFIG", filepath.Join(dir, "no-config.toml"))
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	input := filepath.Join(dir, "talk.txt")
	if err := os.WriteFile(input, []byte(text), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return input
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func TestClean_DryRunPreviewsChunks(t *testing.T) {
	input := newCleanTestRun(t, strings.Repeat("word ", 20))

	output, err := executeRoot(t, input, "--dry-run", "--chunk-size", "30", "--overlap", "5")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(output, "INDEX") {
		t.Error("dry run should print the chunk table header")
	}
	if !strings.Contains(output, "chunk(s)") {
		t.Error("dry run should print the chunk summary")
	}

	// A dry run makes no service calls and writes no checkpoint.
	if _, err := os.Stat(checkpoint.PathFor(input)); !os.IsNotExist(err) {
		t.Error("dry run should not create a checkpoint file")
	}
}

func TestClean_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRANSCRIPT_TIDY_CONFIG", filepath.Join(dir, "no-config.toml"))

	_, err := executeRoot(t, filepath.Join(dir, "missing.txt"))
	if err == nil {
		t.Fatal("Execute() should fail for a missing input file")
	}
	if !strings.Contains(err.Error(), "failed to read input file") {
		t.Errorf("error = %q, want it to mention the input file", err)
	}
}

func TestClean_EmptyInput(t *testing.T) {
	input := newCleanTestRun(t, "\n  \n\t\n")

	_, err := executeRoot(t, input)
	if err == nil {
		t.Fatal("Execute() should fail for an input that normalizes to nothing")
	}
	if !strings.Contains(err.Error(), "empty after normalization") {
		t.Errorf("error = %q, want it to mention normalization", err)
	}
}

func TestClean_InvalidChunkParameters(t *testing.T) {
	input := newCleanTestRun(t, "some transcript text")

	_, err := executeRoot(t, input, "--chunk-size", "100", "--overlap", "100")
	if err == nil {
		t.Fatal("Execute() should fail when overlap is not smaller than chunk size")
	}
	if !strings.Contains(err.Error(), "overlap") {
		t.Errorf("error = %q, want it to mention the overlap", err)
	}
}

func TestClean_MissingAPIKey(t *testing.T) {
	input := newCleanTestRun(t, "some transcript text that needs cleaning")

	_, err := executeRoot(t, input)
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("Execute() error = %v, want ErrMissingAPIKey", err)
	}

	// Nothing was cleaned, so nothing should be checkpointed.
	if _, serr := os.Stat(checkpoint.PathFor(input)); !os.IsNotExist(serr) {
		t.Error("no checkpoint should exist after failing before the first chunk")
	}
}

func TestClean_ResumeRejectsStaleParameters(t *testing.T) {
	input := newCleanTestRun(t, strings.Repeat("a", 30))

	// Checkpoint cut with different chunk parameters.
	store := checkpoint.NewStore(input)
	cp := models.NewCheckpoint(input, "anthropic", llm.DefaultModel("anthropic"), 50, 10, 7)
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := executeRoot(t, input, "--resume", "--chunk-size", "10", "--overlap", "2")
	if !errors.Is(err, checkpoint.ErrStale) {
		t.Fatalf("Execute() error = %v, want ErrStale", err)
	}
	if !strings.Contains(err.Error(), "--resume") {
		t.Errorf("error = %q, should tell the user how to recover", err)
	}
}

func TestClean_ResumeRejectsModelChange(t *testing.T) {
	// 30 runes at size 10 overlap 2 cut to [0,10) [8,18) [16,26) [24,30).
	input := newCleanTestRun(t, strings.Repeat("a", 30))

	store := checkpoint.NewStore(input)
	cp := models.NewCheckpoint(input, "anthropic", "some-retired-model", 10, 2, 4)
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := executeRoot(t, input, "--resume", "--chunk-size", "10", "--overlap", "2")
	if !errors.Is(err, checkpoint.ErrStale) {
		t.Fatalf("Execute() error = %v, want ErrStale", err)
	}
	if !strings.Contains(err.Error(), "some-retired-model") {
		t.Errorf("error = %q, should name the checkpoint's model", err)
	}
}

func TestClean_ResumeWithoutCheckpointStartsFresh(t *testing.T) {
	input := newCleanTestRun(t, "fresh text with no checkpoint on disk")

	// Run proceeds past the resume branch and fails at the missing key,
	// proving a missing checkpoint is not an error under --resume.
	_, err := executeRoot(t, input, "--resume")
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("Execute() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestClean_MissingGlossaryFile(t *testing.T) {
	input := newCleanTestRun(t, "transcript mentioning Dumbledore and Hermione")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	_, err := executeRoot(t, input, "--glossary", filepath.Join(t.TempDir(), "names.txt"))
	if err == nil {
		t.Fatal("Execute() should fail for a missing glossary file")
	}
	if !strings.Contains(err.Error(), "glossary") {
		t.Errorf("error = %q, want it to mention the glossary", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "txt file",
			input: "/tmp/talk.txt",
			want:  "/tmp/talk_cleaned.txt",
		},
		{
			name:  "no extension",
			input: "/data/transcript",
			want:  "/data/transcript_cleaned",
		},
		{
			name:  "dotted stem",
			input: "ep.01.md",
			want:  "ep.01_cleaned.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultOutputPath(tt.input); got != tt.want {
				t.Errorf("defaultOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
