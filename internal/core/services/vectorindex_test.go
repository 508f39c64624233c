package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

func fixedEmbedder() *bagOfWordsEmbedder {
	e := newEmbedder()
	e.vectors = map[string][]float32{
		"north": {1, 0, 0},
		"east":  {0, 1, 0},
		"up":    {0, 0, 1},
		"ne":    {0.7071, 0.7071, 0},
		"ne2":   {0.7071, 0.7071, 0},
		"query": {1, 0, 0},
		"wide":  {1, 0, 0, 0},
	}
	return e
}

func TestNewVectorIndex_Empty(t *testing.T) {
	e := fixedEmbedder()

	idx, err := NewVectorIndex(context.Background(), e, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimensions())

	results, err := idx.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(0), e.calls.Load(), "empty index must not embed")
}

func TestNewChunkIndex_SearchCarriesChunkIdentity(t *testing.T) {
	e := fixedEmbedder()
	chunks := []domain.Chunk{
		{ID: "c-north", Origin: "policy.txt", Content: "north"},
		{ID: "c-east", Origin: "limits.txt", Content: "east"},
	}

	idx, err := NewChunkIndex(context.Background(), e, chunks)
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c-north", results[0].ChunkID)
	assert.Equal(t, "policy.txt", results[0].Origin)
	assert.Equal(t, "north", results[0].Text)
	assert.Equal(t, "c-east", results[1].ChunkID)
	assert.Equal(t, "limits.txt", results[1].Origin)
}

func TestNewVectorIndex_EmbedsEagerly(t *testing.T) {
	e := fixedEmbedder()

	idx, err := NewVectorIndex(context.Background(), e, []string{"north", "east", "up"})

	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, int32(3), e.calls.Load())
}

func TestNewVectorIndex_EmbeddingError(t *testing.T) {
	e := fixedEmbedder()
	e.err = domain.ErrEmbeddingUnavailable

	_, err := NewVectorIndex(context.Background(), e, []string{"north"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewVectorIndex_DimensionMismatch(t *testing.T) {
	_, err := NewVectorIndex(context.Background(), fixedEmbedder(), []string{"north", "wide"})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_Search_Ranking(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), fixedEmbedder(), []string{"up", "east", "ne", "north"})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "query", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "north", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, 3, results[0].Position)
	assert.Equal(t, "ne", results[1].Text)
	assert.InDelta(t, 0.7071, results[1].Similarity, 1e-4)
}

func TestVectorIndex_Search_KLargerThanIndex(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), fixedEmbedder(), []string{"up", "east", "north"})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "query", 10)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestVectorIndex_Search_TiesKeepInsertionOrder(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), fixedEmbedder(), []string{"ne2", "up", "ne"})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "query", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Position)
	assert.Equal(t, 2, results[1].Position)
}

func TestVectorIndex_Search_NonPositiveK(t *testing.T) {
	e := fixedEmbedder()
	idx, err := NewVectorIndex(context.Background(), e, []string{"north"})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "query", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(1), e.calls.Load())
}

func TestVectorIndex_Search_QueryDimensionMismatch(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), fixedEmbedder(), []string{"north"})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), "wide", 1)

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_Search_QueryEmbeddingError(t *testing.T) {
	e := fixedEmbedder()
	idx, err := NewVectorIndex(context.Background(), e, []string{"north"})
	require.NoError(t, err)

	e.err = errors.New("provider down")
	_, err = idx.Search(context.Background(), "query", 1)

	assert.EqualError(t, err, "embedding query: provider down")
}
