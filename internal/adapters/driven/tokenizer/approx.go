package tokenizer

import (
	"math"
	"strings"

	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// Ensure Approximate implements the interface.
var _ driven.TokenCounter = Approximate{}

// wordsPerToken is the average number of English words per subword token.
const wordsPerToken = 0.75

// Approximate estimates token counts from whitespace-separated words.
// It needs no vocabulary download and is used when the exact tokenizer
// cannot be loaded.
type Approximate struct{}

// Name returns the counter name.
func (Approximate) Name() string {
	return "approx"
}

// Count returns round(words / 0.75), never less than 1.
func (Approximate) Count(text string) int {
	words := len(strings.Fields(text))
	return max(1, int(math.RoundToEven(float64(words)/wordsPerToken)))
}

// TailOf returns the last round(n * 0.75) words of text, at least one.
func (Approximate) TailOf(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	keep := max(1, int(math.RoundToEven(float64(n)*wordsPerToken)))
	if keep >= len(words) {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-keep:], " ")
}
