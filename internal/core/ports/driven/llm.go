package driven

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// LLMService generates answers from a fully built prompt.
// Implementations send domain.SystemInstruction with deterministic decoding
// and no conversation history.
type LLMService interface {
	// Generate sends a single prompt and returns the trimmed answer with usage.
	Generate(ctx context.Context, prompt string) (domain.Generation, error)

	// ModelName returns the name of the model.
	ModelName() string

	// Close releases resources.
	Close() error
}
