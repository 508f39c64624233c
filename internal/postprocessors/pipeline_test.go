package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// stubProcessor returns predefined chunks, or passes input through.
type stubProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (s *stubProcessor) Name() string { return s.name }

func (s *stubProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	s.seen = chunks
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return chunks, nil
}

var policyDoc = &domain.Document{
	ID:      "doc-1",
	Origin:  "market_risk.txt",
	Content: "VaR limits are set by the board.",
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), policyDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_ChainsProcessors(t *testing.T) {
	created := []domain.Chunk{{ID: "c1", Content: "VaR limits are set by the board."}}
	first := &stubProcessor{name: "chunker", chunks: created}
	second := &stubProcessor{name: "passthrough"}

	p := NewPipeline(first)
	p.Add(second)

	chunks, err := p.Process(context.Background(), policyDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 processors, got %d", p.Len())
	}
	if first.seen != nil {
		t.Error("first processor should receive nil chunks")
	}
	if len(second.seen) != 1 || len(chunks) != 1 {
		t.Errorf("expected chunks to flow through, got %v", chunks)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	boom := errors.New("tokenizer crashed")
	p := NewPipeline(&stubProcessor{name: "chunker", err: boom})

	_, err := p.Process(context.Background(), policyDoc)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err.Error() != "processor chunker: tokenizer crashed" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
