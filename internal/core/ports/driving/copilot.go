package driving

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// CopilotService answers questions over the indexed corpus.
type CopilotService interface {
	// Ask answers a question, building the index on first use.
	// Only embedding or build failures are returned as errors; guardrail
	// and generation failures come back as a refusal answer.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Rebuild rescans, rechunks and re-embeds the corpus.
	Rebuild(ctx context.Context) (*domain.RebuildResult, error)

	// Stats reports the current index without triggering a build.
	Stats(ctx context.Context) domain.IndexStats
}
