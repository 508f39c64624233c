package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec    []float32
	err    error
	closed bool
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) { return f.vec, f.err }
func (f *fakeEmbedder) ModelName() string                                { return "fake-embed" }
func (f *fakeEmbedder) Close() error {
	f.closed = true
	return nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalize_UnitLength(t *testing.T) {
	inputs := [][]float32{
		{3, 4},
		{1, 1, 1, 1},
		{-0.2, 17, 3.5},
		{1e-3},
	}

	for _, in := range inputs {
		svc := Normalize(&fakeEmbedder{vec: in})

		v, err := svc.Embed(context.Background(), "text")

		require.NoError(t, err)
		assert.InDelta(t, 1.0, norm(v), 1e-6)
	}
}

func TestNormalize_Direction(t *testing.T) {
	v, err := Normalize(&fakeEmbedder{vec: []float32{3, 4}}).Embed(context.Background(), "x")

	require.NoError(t, err)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := UnitVector([]float32{0, 0, 0})

	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}

	_ = UnitVector(in)

	assert.Equal(t, []float32{3, 4}, in)
}

func TestNormalize_PropagatesError(t *testing.T) {
	boom := errors.New("provider down")

	_, err := Normalize(&fakeEmbedder{err: boom}).Embed(context.Background(), "x")

	assert.ErrorIs(t, err, boom)
}

func TestNormalize_Delegates(t *testing.T) {
	inner := &fakeEmbedder{}
	svc := Normalize(inner)

	assert.Equal(t, "fake-embed", svc.ModelName())
	require.NoError(t, svc.Close())
	assert.True(t, inner.closed)
}
