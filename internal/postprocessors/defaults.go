package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
// The counter measures chunk token lengths.
func RegisterDefaults(r *Registry, counter driven.TokenCounter) {
	r.Register("chunker", func(cfg map[string]any) (driven.PostProcessor, error) {
		return buildChunker(cfg, counter)
	})
}

// BuildPipeline constructs a pipeline from config using the registry.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		p.Add(proc)
	}
	return p, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - target_tokens (int): Token budget per chunk (default: 160)
//   - overlap_tokens (int): Tokens carried into the next chunk (default: 32)
func buildChunker(cfg map[string]any, counter driven.TokenCounter) (driven.PostProcessor, error) {
	opts := []chunker.Option{chunker.WithTokenCounter(counter)}

	if size, ok := getIntFromConfig(cfg, "target_tokens"); ok {
		opts = append(opts, chunker.WithTargetTokens(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap_tokens"); ok {
		opts = append(opts, chunker.WithOverlapTokens(overlap))
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
