package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// VectorIndex holds chunks and their embeddings in insertion order.
// It is immutable once built; rebuilds publish a new VectorIndex.
type VectorIndex struct {
	embedder driven.EmbeddingService
	chunks   []domain.Chunk
	vectors  [][]float32
	dims     int
}

// NewVectorIndex indexes bare texts as anonymous chunks.
func NewVectorIndex(ctx context.Context, embedder driven.EmbeddingService, texts []string) (*VectorIndex, error) {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{Content: text, Position: i}
	}
	return NewChunkIndex(ctx, embedder, chunks)
}

// NewChunkIndex embeds every chunk eagerly. An empty input yields a valid
// empty index that never calls the embedder.
func NewChunkIndex(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk) (*VectorIndex, error) {
	idx := &VectorIndex{
		embedder: embedder,
		chunks:   append([]domain.Chunk(nil), chunks...),
		vectors:  make([][]float32, 0, len(chunks)),
	}

	for i := range chunks {
		vec, err := embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		if i == 0 {
			idx.dims = len(vec)
		} else if len(vec) != idx.dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(vec), idx.dims)
		}
		idx.vectors = append(idx.vectors, vec)
	}

	return idx, nil
}

// Len returns the number of indexed chunks.
func (v *VectorIndex) Len() int {
	return len(v.chunks)
}

// Dimensions returns the embedding width, or 0 for an empty index.
func (v *VectorIndex) Dimensions() int {
	return v.dims
}

// Search returns at most k chunks ordered by descending similarity.
// Ties keep insertion order.
func (v *VectorIndex) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if v.Len() == 0 || k <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	q, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(q) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(q), v.dims)
	}

	scored := make([]domain.ScoredChunk, len(v.vectors))
	for i, vec := range v.vectors {
		scored[i] = domain.ScoredChunk{
			ChunkID:    v.chunks[i].ID,
			Origin:     v.chunks[i].Origin,
			Text:       v.chunks[i].Content,
			Similarity: dot(q, vec),
			Position:   i,
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Similarity > scored[b].Similarity
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
