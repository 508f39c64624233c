package services

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// bagOfWordsEmbedder hashes lowercase words into a fixed-width unit vector,
// so texts sharing words have a positive dot product.
type bagOfWordsEmbedder struct {
	dims    int
	vectors map[string][]float32
	err     error
	calls   atomic.Int32
}

func newEmbedder() *bagOfWordsEmbedder {
	return &bagOfWordsEmbedder{dims: 256}
}

func (e *bagOfWordsEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}

	vec := make([]float32, e.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.dims)]++
	}

	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm) + 1e-10
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func (e *bagOfWordsEmbedder) ModelName() string { return "bag-of-words" }
func (e *bagOfWordsEmbedder) Close() error      { return nil }

type mockLLM struct {
	mu      sync.Mutex
	text    string
	usage   domain.Usage
	err     error
	panics  any
	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (domain.Generation, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.panics != nil {
		panic(m.panics)
	}
	if m.err != nil {
		return domain.Generation{}, m.err
	}
	return domain.Generation{Text: m.text, Usage: m.usage}, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (m *mockAudit) Write(_ context.Context, event domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockAudit) all() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEvent(nil), m.events...)
}

// mockSource returns the corpus produced by next on each load.
type mockSource struct {
	mu    sync.Mutex
	docs  []domain.Document
	next  func(load int) []domain.Document
	err   error
	loads int
	gate  chan struct{}
}

func (m *mockSource) Load(_ context.Context, _ string) ([]domain.Document, error) {
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	if m.next != nil {
		return m.next(m.loads), nil
	}
	return m.docs, nil
}

func (m *mockSource) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// wholeDocument emits each document as a single chunk.
type wholeDocument struct{}

func (wholeDocument) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}
	return []domain.Chunk{{ID: "chunk-" + doc.ID, DocumentID: doc.ID, Origin: doc.Origin, Content: doc.Content}}, nil
}

type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return m.text, m.err
}

// mapStore is an in-memory ConfigStore keyed by dot-notation names.
type mapStore map[string]any

func (m mapStore) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m mapStore) GetInt(key string) int {
	n, _ := asInt(m[key])
	return n
}

func (m mapStore) GetFloat(key string) float64 {
	f, _ := asFloat(m[key])
	return f
}

func (m mapStore) GetBool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

func (m mapStore) GetStringSlice(key string) []string {
	s, _ := m[key].([]string)
	return s
}

func (m mapStore) Load() error  { return nil }
func (m mapStore) Path() string { return ":memory:" }

func docs(contents ...string) []domain.Document {
	out := make([]domain.Document, 0, len(contents))
	for i, c := range contents {
		out = append(out, domain.Document{ID: string(rune('a' + i)), Origin: "doc.txt", Content: c})
	}
	return out
}
