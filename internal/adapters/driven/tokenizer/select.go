// Package tokenizer provides the exact and approximate token counters
// used by the chunker.
package tokenizer

import (
	"fmt"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// loadExact is swapped in tests to avoid fetching the vocabulary.
var loadExact = func() (driven.TokenCounter, error) {
	return NewTiktoken(DefaultEncoding)
}

// Select returns the token counter for mode. In auto mode the exact
// tokenizer is preferred and the approximation is used if it fails to load.
func Select(mode domain.TokenizerMode) (driven.TokenCounter, error) {
	switch mode {
	case domain.TokenizerApprox:
		return Approximate{}, nil
	case domain.TokenizerExact:
		return loadExact()
	case domain.TokenizerAuto, "":
		counter, err := loadExact()
		if err != nil {
			logger.Warn("exact tokenizer unavailable, using word-count approximation: %v", err)
			return Approximate{}, nil
		}
		return counter, nil
	default:
		return nil, fmt.Errorf("%w: tokenizer %q", domain.ErrInvalidInput, mode)
	}
}
