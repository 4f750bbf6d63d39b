// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies readNormalized, truncate, and formatTime

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadNormalized(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.txt")
	raw := "  uh   so\n\nlike\tI  was   saying \r\n"
	if err := os.WriteFile(input, []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := readNormalized(input)
	if err != nil {
		t.Fatalf("readNormalized() error = %v", err)
	}
	want := "uh so like I was saying"
	if got != want {
		t.Errorf("readNormalized() = %q, want %q", got, want)
	}
}

func TestReadNormalized_MissingFile(t *testing.T) {
	_, err := readNormalized(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("readNormalized() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "failed to read input file") {
		t.Errorf("error = %q, want it to mention the input file", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "long string truncated",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "very short maxLen",
			input:  "hello",
			maxLen: 2,
			want:   "he",
		},
		{
			name:   "maxLen equals 3",
			input:  "hello",
			maxLen: 3,
			want:   "hel",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "unicode counts runes not bytes",
			input:  "你好世界你好世界",
			maxLen: 5,
			want:   "你好...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		input    time.Time
		contains string
	}{
		{
			name:     "just now (seconds ago)",
			input:    now.Add(-30 * time.Second),
			contains: "just now",
		},
		{
			name:     "minutes ago",
			input:    now.Add(-5 * time.Minute),
			contains: "m ago",
		},
		{
			name:     "hours ago",
			input:    now.Add(-3 * time.Hour),
			contains: "h ago",
		},
		{
			name:     "days ago",
			input:    now.Add(-2 * 24 * time.Hour),
			contains: "d ago",
		},
		{
			name:     "weeks ago (shows date)",
			input:    now.Add(-14 * 24 * time.Hour),
			contains: "-", // Date format contains hyphens
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTime(tt.input)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("formatTime() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}
