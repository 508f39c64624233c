package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// IndexManager owns the single live VectorIndex.
//
// Builds are serialised by mu. Readers never take mu: they load the
// published pointer, so a search sees either the old or the new index.
type IndexManager struct {
	source   driven.DocumentSource
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	dataDir  string

	mu    sync.Mutex
	state atomic.Int32
	index atomic.Pointer[VectorIndex]
}

// NewIndexManager creates an unbuilt index manager.
func NewIndexManager(
	source driven.DocumentSource,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	dataDir string,
) *IndexManager {
	return &IndexManager{
		source:   source,
		pipeline: pipeline,
		embedder: embedder,
		dataDir:  dataDir,
	}
}

// State returns the lifecycle state.
func (m *IndexManager) State() domain.IndexState {
	return domain.IndexState(m.state.Load())
}

// Current returns the published index, or nil if none has been built.
func (m *IndexManager) Current() *VectorIndex {
	return m.index.Load()
}

// EnsureBuilt returns the published index, building it first if needed.
// Concurrent first callers share a single build.
func (m *IndexManager) EnsureBuilt(ctx context.Context) (*VectorIndex, error) {
	if idx := m.index.Load(); idx != nil {
		return idx, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.index.Load(); idx != nil {
		return idx, nil
	}
	return m.buildLocked(ctx)
}

// Rebuild rescans the corpus and replaces the index. The previous index
// stays live until the new one is published; on failure it is kept.
func (m *IndexManager) Rebuild(ctx context.Context) (*domain.RebuildResult, error) {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.buildLocked(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RebuildResult{
		Status:    domain.RebuildStatus,
		Chunks:    idx.Len(),
		LatencyMS: elapsedMS(start),
	}, nil
}

// Stats reports the published index without building it.
func (m *IndexManager) Stats() domain.IndexStats {
	idx := m.index.Load()
	if idx == nil {
		return domain.IndexStats{}
	}
	return domain.IndexStats{Built: true, Chunks: idx.Len()}
}

// buildLocked runs a full build. Caller must hold mu.
func (m *IndexManager) buildLocked(ctx context.Context) (*VectorIndex, error) {
	prev := m.state.Swap(int32(domain.IndexBuilding))

	idx, err := m.build(ctx)
	if err != nil {
		m.state.Store(prev)
		logger.Error("index build failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}

	m.index.Store(idx)
	m.state.Store(int32(domain.IndexReady))
	return idx, nil
}

func (m *IndexManager) build(ctx context.Context) (*VectorIndex, error) {
	logger.Section("Index Build")

	docs, err := m.source.Load(ctx, m.dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}

	var all []domain.Chunk
	for i := range docs {
		chunks, err := m.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", docs[i].Origin, err)
		}
		all = append(all, chunks...)
	}

	idx, err := NewChunkIndex(ctx, m.embedder, all)
	if err != nil {
		return nil, err
	}

	logger.Info("index built: %d documents, %d chunks", len(docs), idx.Len())
	return idx, nil
}

// elapsedMS returns milliseconds since start rounded to one decimal.
func elapsedMS(start time.Time) float64 {
	return roundTenth(float64(time.Since(start).Microseconds()) / 1000)
}

// roundTenth rounds to 0.1, half to even.
func roundTenth(ms float64) float64 {
	return math.RoundToEven(ms*10) / 10
}
