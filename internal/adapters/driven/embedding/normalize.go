// Package embedding holds embedding decorators shared by every provider.
package embedding

import (
	"context"
	"math"

	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// epsilon keeps an all-zero vector from dividing by zero.
const epsilon = 1e-10

// Ensure Normalizing implements the interface.
var _ driven.EmbeddingService = (*Normalizing)(nil)

// Normalizing scales every provider vector to unit length so that a dot
// product equals cosine similarity. Provider errors pass through untouched.
type Normalizing struct {
	inner driven.EmbeddingService
}

// Normalize wraps an embedding service.
func Normalize(inner driven.EmbeddingService) *Normalizing {
	return &Normalizing{inner: inner}
}

// Embed returns v / (||v|| + 1e-10).
func (n *Normalizing) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := n.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return UnitVector(v), nil
}

// ModelName returns the wrapped model name.
func (n *Normalizing) ModelName() string {
	return n.inner.ModelName()
}

// Close closes the wrapped service.
func (n *Normalizing) Close() error {
	return n.inner.Close()
}

// UnitVector returns a copy of v divided by its Euclidean norm plus epsilon.
func UnitVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + epsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
