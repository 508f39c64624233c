package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

const promptInstructions = "You are an RBC Group Risk Management assistant. Use ONLY the Context below.\n" +
	"If the Context is insufficient, answer exactly: '" + domain.RefusalText + "'\n" +
	"Rules:\n" +
	" - Cite using the exact numbered tags from Context (e.g., [Source 1], [Source 2]).\n" +
	" - Include a [Source N] tag for each factual claim (at least once per bullet/paragraph).\n" +
	" - Do not invent sources or numbers; only use those shown in Context.\n" +
	" - Be concise; use bullets when listing items.\n\n"

// BuildPrompt numbers results from 1 in the order given and wraps them
// with the citation rules. An empty origin omits the label.
func BuildPrompt(question string, results []domain.ScoredChunk, origin string) string {
	lines := make([]string, 0, len(results))
	for i, r := range results {
		if origin != "" {
			lines = append(lines, fmt.Sprintf("%s%d] (%s) %s", domain.CitationPrefix, i+1, origin, r.Text))
		} else {
			lines = append(lines, fmt.Sprintf("%s%d] %s", domain.CitationPrefix, i+1, r.Text))
		}
	}

	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
