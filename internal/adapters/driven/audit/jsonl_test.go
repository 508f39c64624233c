package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

func sampleEvent(question string) domain.AuditEvent {
	return domain.AuditEvent{
		ID:         "evt",
		Timestamp:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Question:   question,
		MaxSim:     0.72,
		Decision:   domain.DecisionAnswer,
		TopK:       []domain.Source{{ID: 1, Similarity: 0.72, Snippet: "Limits <quarterly> & reviews"}},
		PromptHash: "abcdef0123456789",
		Usage:      &domain.Usage{Model: "gpt-4o-mini", TotalTokens: 10},
		LatencyMS:  12.5,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestJSONL_CreatesDirectoryOnFirstWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	sink := NewJSONL(dir)

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err))

	sink.Write(context.Background(), sampleEvent("q"))

	assert.FileExists(t, filepath.Join(dir, FileName))
	assert.Equal(t, filepath.Join(dir, FileName), sink.Path())
}

func TestJSONL_AppendsOneObjectPerLine(t *testing.T) {
	sink := NewJSONL(t.TempDir())

	sink.Write(context.Background(), sampleEvent("first"))
	sink.Write(context.Background(), sampleEvent("second"))

	lines := readLines(t, sink.Path())
	require.Len(t, lines, 2)

	var got domain.AuditEvent
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, "second", got.Question)
	assert.Equal(t, domain.DecisionAnswer, got.Decision)
}

func TestJSONL_FieldNames(t *testing.T) {
	sink := NewJSONL(t.TempDir())
	sink.Write(context.Background(), sampleEvent("q"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(readLines(t, sink.Path())[0]), &raw))

	for _, key := range []string{"ts", "question", "max_sim", "decision", "topk", "prompt_hash", "usage", "latency_ms"} {
		assert.Contains(t, raw, key)
	}
}

func TestJSONL_NoHTMLEscapingAndUTF8(t *testing.T) {
	sink := NewJSONL(t.TempDir())
	sink.Write(context.Background(), sampleEvent("Quelle est la limite de risque? é"))

	line := readLines(t, sink.Path())[0]
	assert.Contains(t, line, "Limits <quarterly> & reviews")
	assert.Contains(t, line, "é")
}

func TestJSONL_OmitsPromptAndUsageForThresholdRefusal(t *testing.T) {
	sink := NewJSONL(t.TempDir())
	event := sampleEvent("q")
	event.Decision = domain.DecisionRefuseThreshold
	event.PromptHash = ""
	event.Usage = nil

	sink.Write(context.Background(), event)

	line := readLines(t, sink.Path())[0]
	assert.NotContains(t, line, "prompt_hash")
	assert.NotContains(t, line, "usage")
}

func TestJSONL_SwallowsFailures(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	sink := NewJSONL(filepath.Join(blocker, "logs"))

	assert.NotPanics(t, func() {
		sink.Write(context.Background(), sampleEvent("q"))
	})
}

func TestJSONL_ConcurrentWrites(t *testing.T) {
	sink := NewJSONL(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Write(context.Background(), sampleEvent(strings.Repeat("x", 500)))
		}()
	}
	wg.Wait()

	lines := readLines(t, sink.Path())
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.True(t, json.Valid([]byte(l)))
	}
}

type recordingSink struct{ events []domain.AuditEvent }

func (r *recordingSink) Write(_ context.Context, e domain.AuditEvent) { r.events = append(r.events, e) }

func TestMulti_FansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	sink := Multi{a, nil, b}

	sink.Write(context.Background(), sampleEvent("q"))

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
