package domain

import "strings"

// RefusalText is the exact answer returned whenever a guardrail fires.
// Generation prompts instruct the model to emit it verbatim.
const RefusalText = "Insufficient context to answer."

// CitationPrefix is the literal tag prefix a cited answer must contain.
const CitationPrefix = "[Source "

// SnippetLength is the maximum number of characters kept in a source snippet.
const SnippetLength = 200

// PlaceholderOrigin labels every context line in a generation prompt.
const PlaceholderOrigin = "in-memory"

// Decision is the guardrail outcome recorded for an answered question.
type Decision string

// Available decisions.
const (
	// DecisionAnswer means the generated answer was returned as-is.
	DecisionAnswer Decision = "answer"

	// DecisionRefuseThreshold means retrieval evidence was too weak.
	DecisionRefuseThreshold Decision = "refuse_threshold"

	// DecisionRefuseNoCitation means the generated answer carried no citation tag.
	DecisionRefuseNoCitation Decision = "refuse_no_citation"

	// DecisionRefuseLLMError means the generation call failed.
	DecisionRefuseLLMError Decision = "refuse_llm_error"
)

// IsRefusal returns true if the decision replaced the answer with RefusalText.
func (d Decision) IsRefusal() bool {
	switch d {
	case DecisionRefuseThreshold, DecisionRefuseNoCitation, DecisionRefuseLLMError:
		return true
	}
	return false
}

// String returns the string representation.
func (d Decision) String() string {
	return string(d)
}

// Source summarises one retrieved chunk for the caller.
type Source struct {
	// ID is the 1-based rank, matching the [Source N] tag in the prompt.
	ID int `json:"id"`

	// Similarity is the retrieval score.
	Similarity float64 `json:"similarity"`

	// Snippet is the first SnippetLength characters with newlines flattened.
	Snippet string `json:"snippet"`
}

// Answer is the response to a question.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`

	// Decision is the guardrail outcome. It is not part of the wire form.
	Decision Decision `json:"-"`
}

// Refused reports whether the caller received RefusalText, either from a
// guardrail or from the model declining on its own.
func (a *Answer) Refused() bool {
	return a.Decision.IsRefusal() || strings.TrimSpace(a.Answer) == RefusalText
}

// HasCitation reports whether text contains at least one citation tag.
// The cited number is not validated against the source range.
func HasCitation(text string) bool {
	return strings.Contains(text, CitationPrefix)
}

// Snippet flattens newlines and truncates text to SnippetLength characters.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) > SnippetLength {
		runes = runes[:SnippetLength]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}

// NewSources converts retrieval results into 1-based source summaries.
func NewSources(results []ScoredChunk) []Source {
	sources := make([]Source, 0, len(results))
	for i, r := range results {
		sources = append(sources, Source{
			ID:         i + 1,
			Similarity: r.Similarity,
			Snippet:    Snippet(r.Text),
		})
	}
	return sources
}
