// Package resilient wraps an LLM service with a rate limiter and a circuit breaker.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Config controls the protection applied around generation calls.
type Config struct {
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit float64

	// BreakerFailures opens the breaker after this many consecutive failures.
	// Zero disables the breaker.
	BreakerFailures int

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
}

// LLMService decorates another LLM service. Rejections by the limiter or an
// open breaker surface as domain.ErrLLMUnavailable so the caller refuses.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// Wrap returns inner unchanged when cfg disables both protections.
func Wrap(inner driven.LLMService, cfg Config) driven.LLMService {
	if cfg.RateLimit <= 0 && cfg.BreakerFailures <= 0 {
		return inner
	}
	return New(inner, cfg)
}

// New creates the decorator.
func New(inner driven.LLMService, cfg Config) *LLMService {
	s := &LLMService{inner: inner}

	if cfg.RateLimit > 0 {
		burst := max(1, int(cfg.RateLimit))
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.BreakerFailures > 0 {
		threshold := uint32(cfg.BreakerFailures)
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "llm:" + inner.ModelName(),
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Zap().Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}

	return s
}

// Generate waits for the limiter, then calls through the breaker.
func (s *LLMService) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return domain.Generation{}, fmt.Errorf("%w: rate limit: %w", domain.ErrLLMUnavailable, err)
		}
	}

	if s.breaker == nil {
		return s.inner.Generate(ctx, prompt)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.inner.Generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.Generation{}, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return domain.Generation{}, err
	}

	return result.(domain.Generation), nil
}

// State reports the breaker state, or "disabled".
func (s *LLMService) State() string {
	if s.breaker == nil {
		return "disabled"
	}
	return s.breaker.State().String()
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
