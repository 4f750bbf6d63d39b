// ABOUTME: Context extraction picks the tail of the previous cleaned chunk
// ABOUTME: Prefers starting after a sentence end so the model sees a coherent lead-in
package core

import "strings"

// ContextTail returns up to maxRunes from the end of cleaned text, used as
// the lead-in context when cleaning the next chunk. Text that fits whole is
// returned as is. A longer text is cut to the window, then trimmed to start
// after the first sentence end inside it, or after the first space when no
// sentence end exists, so the context does not open mid-word.
func ContextTail(cleaned string, maxRunes int) string {
	if cleaned == "" || maxRunes <= 0 {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) <= maxRunes {
		return cleaned
	}
	window := runes[len(runes)-maxRunes:]

	for i := 0; i < len(window)-1; i++ {
		switch window[i] {
		case '.', '!', '?':
			return strings.TrimSpace(string(window[i+1:]))
		}
	}

	for i := 0; i < len(window)-1; i++ {
		if window[i] == ' ' {
			return string(window[i+1:])
		}
	}

	return string(window)
}
