// ABOUTME: Tests for transcript normalization
// ABOUTME: Verifies blank line removal and whitespace collapsing

package core

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "already clean",
			raw:  "hello world",
			want: "hello world",
		},
		{
			name: "blank lines removed",
			raw:  "first line\n\n\nsecond line",
			want: "first line second line",
		},
		{
			name: "whitespace runs collapse",
			raw:  "too   many    spaces",
			want: "too many spaces",
		},
		{
			name: "tabs and newlines collapse",
			raw:  "one\ttwo\nthree\t\n four",
			want: "one two three four",
		},
		{
			name: "carriage returns handled",
			raw:  "line one\r\nline two\r\n",
			want: "line one line two",
		},
		{
			name: "leading and trailing whitespace trimmed",
			raw:  "   padded text   ",
			want: "padded text",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only input",
			raw:  " \n\t \n ",
			want: "",
		},
		{
			name: "unicode text preserved",
			raw:  "café  au\n\nlait — délicieux",
			want: "café au lait — délicieux",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := "some  raw\n\ntranscript\ttext"
	first := Normalize(raw)
	second := Normalize(raw)
	if first != second {
		t.Errorf("Normalize not deterministic: %q vs %q", first, second)
	}
}
