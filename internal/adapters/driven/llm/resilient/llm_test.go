package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

type scriptedLLM struct {
	err   error
	calls int
}

func (s *scriptedLLM) Generate(context.Context, string) (domain.Generation, error) {
	s.calls++
	if s.err != nil {
		return domain.Generation{}, s.err
	}
	return domain.Generation{Text: "ok [Source 1]", Usage: domain.Usage{Model: "m"}}, nil
}

func (s *scriptedLLM) ModelName() string { return "m" }
func (s *scriptedLLM) Close() error      { return nil }

func TestWrap_DisabledReturnsInner(t *testing.T) {
	inner := &scriptedLLM{}

	assert.Same(t, inner, Wrap(inner, Config{}))
}

func TestGenerate_PassesThrough(t *testing.T) {
	inner := &scriptedLLM{}
	svc := New(inner, Config{BreakerFailures: 3, BreakerTimeout: time.Minute})

	gen, err := svc.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "ok [Source 1]", gen.Text)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "closed", svc.State())
}

func TestGenerate_BreakerOpensAfterFailures(t *testing.T) {
	boom := errors.New("upstream 500")
	inner := &scriptedLLM{err: boom}
	svc := New(inner, Config{BreakerFailures: 2, BreakerTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := svc.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, boom)
	}

	_, err := svc.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "open", svc.State())
}

func TestGenerate_RateLimitHonoursContext(t *testing.T) {
	inner := &scriptedLLM{}
	svc := New(inner, Config{RateLimit: 0.001})

	_, err := svc.Generate(context.Background(), "p")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = svc.Generate(ctx, "p")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "disabled", svc.State())
}
