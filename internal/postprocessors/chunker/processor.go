// Package chunker provides a sentence-aware, token-budgeted chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// DefaultTargetTokens is the default token budget per chunk.
const DefaultTargetTokens = 160

// DefaultOverlapTokens is the default number of tokens carried into the next chunk.
const DefaultOverlapTokens = 32

// Processor splits document content into overlapping chunks that respect a
// token budget. Sentences are never split unless a single sentence exceeds
// the budget, in which case it is wrapped word by word.
// It implements the PostProcessor interface.
type Processor struct {
	target  int
	overlap int
	counter driven.TokenCounter
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetTokens sets the token budget per chunk.
func WithTargetTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.target = n
		}
	}
}

// WithOverlapTokens sets the overlap carried between chunks in tokens.
func WithOverlapTokens(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlap = n
		}
	}
}

// WithTokenCounter sets the token counter used to measure text.
func WithTokenCounter(c driven.TokenCounter) Option {
	return func(p *Processor) {
		if c != nil {
			p.counter = c
		}
	}
}

// New creates a new chunker processor with the given options.
// The counter defaults to a word-count approximation.
func New(opts ...Option) *Processor {
	p := &Processor{
		target:  DefaultTargetTokens,
		overlap: DefaultOverlapTokens,
		counter: tokenizer.Approximate{},
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.target {
		p.overlap = p.target / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts := p.Chunk(doc.Content)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Origin:     doc.Origin,
			Content:    text,
			Position:   i,
			Tokens:     p.counter.Count(text),
		})
	}

	return chunks, nil
}

// Chunk splits text into chunk strings. Empty or whitespace-only text
// yields no chunks.
func (p *Processor) Chunk(text string) []string {
	b := &builder{p: p}
	for _, unit := range splitUnits(text) {
		if p.counter.Count(unit) >= p.target {
			b.flush()
			for _, word := range strings.Fields(unit) {
				b.add(word)
			}
			continue
		}
		b.add(unit)
	}
	b.flush()
	return b.chunks
}

// builder accumulates units into a buffer and emits chunks.
type builder struct {
	p      *Processor
	buf    []string
	last   string
	chunks []string
}

func (b *builder) add(unit string) {
	if len(b.buf) == 0 {
		b.start(unit)
		return
	}
	if b.p.counter.Count(joinWith(b.buf, unit)) <= b.p.target {
		b.buf = append(b.buf, unit)
		return
	}
	b.flush()
	b.start(unit)
}

// start seeds an empty buffer with the overlap tail of the previous chunk,
// shortened until tail and unit fit the budget together. The first unit is
// always accepted, even when it alone exceeds the budget.
func (b *builder) start(unit string) {
	if tail := b.tailFor(unit); tail != "" {
		b.buf = []string{tail, unit}
		return
	}
	b.buf = []string{unit}
}

func (b *builder) tailFor(unit string) string {
	if b.p.overlap == 0 || b.last == "" {
		return ""
	}
	n := min(b.p.overlap, b.p.target-b.p.counter.Count(unit))
	for ; n > 0; n-- {
		tail := strings.TrimSpace(b.p.counter.TailOf(b.last, n))
		if tail == "" {
			continue
		}
		if b.p.counter.Count(tail+" "+unit) <= b.p.target {
			return tail
		}
	}
	return ""
}

func (b *builder) flush() {
	if len(b.buf) == 0 {
		return
	}
	chunk := strings.TrimSpace(strings.Join(b.buf, " "))
	b.buf = nil
	if chunk == "" {
		return
	}
	b.chunks = append(b.chunks, chunk)
	b.last = chunk
}

func joinWith(buf []string, unit string) string {
	return strings.Join(buf, " ") + " " + unit
}
