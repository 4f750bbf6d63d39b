// ABOUTME: Merger stitches cleaned chunks back into one transcript
// ABOUTME: Strips the duplicated overlap at each seam by exact text match
package core

import (
	"regexp"
	"strings"
)

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// Merger rejoins cleaned chunks, removing the overlap region that
// neighbouring chunks both contain.
type Merger struct {
	overlap int
}

// NewMerger creates a Merger for chunks that were cut with the given
// overlap in runes
func NewMerger(overlap int) *Merger {
	return &Merger{overlap: overlap}
}

// Merge concatenates cleaned chunks in index order. For every chunk after
// the first it finds the longest run of text that both ends the previous
// chunk and starts the current one, and drops that run from the current
// chunk before appending. When the cleaned seam no longer matches
// textually, the configured overlap length is dropped instead, realigned
// to the next word start, and the pieces join with a paragraph break.
// Runs of three or more newlines collapse to a paragraph break at the end.
func (m *Merger) Merge(cleaned []string) string {
	if len(cleaned) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(cleaned[0])
	prev := cleaned[0]

	for _, cur := range cleaned[1:] {
		if cur == "" {
			continue
		}
		switch k := overlapRun(prev, cur, m.overlap*2); {
		case k > 0:
			b.WriteString(string([]rune(cur)[k:]))
		case m.overlap == 0:
			b.WriteString(cur)
		default:
			b.WriteString("\n\n")
			b.WriteString(dropRunes(cur, m.overlap))
		}
		prev = cur
	}

	out := newlineRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

// overlapRun returns the length in runes of the longest text run that both
// ends prev and starts cur, probing up to limit runes. Zero means the two
// texts share no seam.
func overlapRun(prev, cur string, limit int) int {
	p := []rune(prev)
	c := []rune(cur)
	max := limit
	if len(p) < max {
		max = len(p)
	}
	if len(c) < max {
		max = len(c)
	}
	for k := max; k > 0; k-- {
		if runesEqual(p[len(p)-k:], c[:k]) {
			return k
		}
	}
	return 0
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dropRunes removes count runes from the front of text, then advances past
// the next space so the result does not start mid-word.
func dropRunes(text string, count int) string {
	runes := []rune(text)
	if count >= len(runes) {
		return ""
	}
	rest := runes[count:]
	for i, r := range rest {
		if r == ' ' {
			return string(rest[i+1:])
		}
	}
	return string(rest)
}
