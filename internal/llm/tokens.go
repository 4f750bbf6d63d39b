// ABOUTME: TokenEstimator sizes chunk text in tokens before it is sent out
// ABOUTME: Uses tiktoken's cl100k_base table with a runes-per-token fallback
package llm

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackRunesPerToken approximates English prose when no encoding is loaded
const fallbackRunesPerToken = 4

// TokenEstimator estimates how many tokens a piece of text costs
type TokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenEstimator creates an estimator. When the tiktoken tables cannot
// be loaded the estimator falls back to a runes-per-token heuristic.
func NewTokenEstimator() *TokenEstimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenEstimator{}
	}
	return &TokenEstimator{encoding: enc}
}

// Estimate returns the approximate token count for text
func (e *TokenEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	if e.encoding != nil {
		return len(e.encoding.Encode(text, nil, nil))
	}
	estimate := utf8.RuneCountInString(text) / fallbackRunesPerToken
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}
