// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/embedding"
	geminiembed "github.com/custodia-labs/risk-copilot/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/risk-copilot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/risk-copilot/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/risk-copilot/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/risk-copilot/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/risk-copilot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/risk-copilot/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/llm/resilient"
	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// InitResult contains the AI services used to answer questions.
type InitResult struct {
	// EmbeddingService returns unit-length vectors.
	EmbeddingService driven.EmbeddingService

	// LLMService is wrapped with the configured rate limit and breaker.
	LLMService driven.LLMService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	var errs []error
	if r.EmbeddingService != nil {
		errs = append(errs, r.EmbeddingService.Close())
	}
	if r.LLMService != nil {
		errs = append(errs, r.LLMService.Close())
	}
	return errors.Join(errs...)
}

// Init creates both AI services from settings.
func Init(ctx context.Context, settings domain.AppSettings) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	return &InitResult{
		EmbeddingService: embedding.Normalize(embedder),
		LLMService: resilient.Wrap(llm, resilient.Config{
			RateLimit:       settings.Resilience.RateLimit,
			BreakerFailures: settings.Resilience.BreakerFailures,
			BreakerTimeout:  settings.Resilience.BreakerTimeout,
		}),
	}, nil
}

// CreateEmbeddingService creates the raw embedding service for the provider.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings missing", domain.ErrInvalidInput)
	}
	if !settings.Provider.SupportsEmbedding() {
		return nil, fmt.Errorf("%w: %q cannot produce embeddings, use ollama, openai or gemini",
			domain.ErrUnsupportedProvider, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w for %s embeddings", domain.ErrAPIKeyRequired, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	}
}

// CreateLLMService creates the raw LLM service for the provider.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: LLM settings missing", domain.ErrInvalidInput)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w for %s generation", domain.ErrAPIKeyRequired, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	}
}
