package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// Ensure CopilotService implements the interface.
var _ driving.CopilotService = (*CopilotService)(nil)

// fingerprintLength is the number of hex characters kept from the prompt hash.
const fingerprintLength = 16

// CopilotService answers questions from the indexed corpus behind
// an evidence threshold and a citation check.
type CopilotService struct {
	index    *IndexManager
	llm      driven.LLMService
	audit    driven.AuditLog
	settings domain.RetrievalSettings
}

// NewCopilotService creates a new copilot service.
// The audit parameter is optional (can be nil).
func NewCopilotService(
	index *IndexManager,
	llm driven.LLMService,
	audit driven.AuditLog,
	settings domain.RetrievalSettings,
) *CopilotService {
	return &CopilotService{
		index:    index,
		llm:      llm,
		audit:    audit,
		settings: settings,
	}
}

// Ask answers a question. Only index build and query embedding failures
// are returned as errors; every other outcome is an answer, possibly
// the refusal text. Sources always reflect what retrieval found.
func (s *CopilotService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	start := time.Now()

	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	idx, err := s.index.EnsureBuilt(ctx)
	if err != nil {
		return nil, err
	}
	if idx.Len() == 0 {
		logger.Warn("index is empty; add .txt files to the data directory and rebuild")
		return &domain.Answer{
			Answer:   domain.RefusalText,
			Sources:  []domain.Source{},
			Decision: domain.DecisionRefuseThreshold,
		}, nil
	}

	results, err := idx.Search(ctx, question, s.settings.TopK)
	if err != nil {
		return nil, err
	}

	for i := range results {
		logger.Debug("retrieved [%d] chunk %s from %s (%.4f)",
			i+1, results[i].ChunkID, results[i].Origin, results[i].Similarity)
	}

	sources := domain.NewSources(results)
	answer := &domain.Answer{Answer: domain.RefusalText, Sources: sources}
	event := domain.AuditEvent{
		Question: question,
		MaxSim:   maxSimilarity(results),
		TopK:     sources,
	}

	if len(results) == 0 || event.MaxSim < s.settings.SimilarityThreshold {
		logger.Debug("max similarity %.4f below threshold %.4f", event.MaxSim, s.settings.SimilarityThreshold)
		event.Decision = domain.DecisionRefuseThreshold
		answer.Decision = event.Decision
		s.record(ctx, event, start)
		return answer, nil
	}

	prompt := BuildPrompt(question, results, domain.PlaceholderOrigin)
	event.PromptHash = Fingerprint(prompt)

	gen, err := s.generate(ctx, prompt)
	switch {
	case err != nil:
		logger.Warn("generation failed: %v", err)
		event.Decision = domain.DecisionRefuseLLMError
		event.Usage = &domain.Usage{Error: err.Error()}

	case s.settings.EnforceCitations &&
		strings.TrimSpace(gen.Text) != domain.RefusalText &&
		!domain.HasCitation(gen.Text):
		event.Decision = domain.DecisionRefuseNoCitation
		event.Usage = &gen.Usage

	default:
		event.Decision = domain.DecisionAnswer
		event.Usage = &gen.Usage
		answer.Answer = gen.Text
	}

	answer.Decision = event.Decision
	s.record(ctx, event, start)
	return answer, nil
}

// Rebuild forces a full rebuild of the index.
func (s *CopilotService) Rebuild(ctx context.Context) (*domain.RebuildResult, error) {
	return s.index.Rebuild(ctx)
}

// Stats reports the index without building it.
func (s *CopilotService) Stats(_ context.Context) domain.IndexStats {
	return s.index.Stats()
}

// generate calls the LLM, converting a panic into an error.
func (s *CopilotService) generate(ctx context.Context, prompt string) (gen domain.Generation, err error) {
	if s.llm == nil {
		return gen, fmt.Errorf("%w: no LLM configured", domain.ErrLLMUnavailable)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrLLMUnavailable, r)
		}
	}()

	return s.llm.Generate(ctx, prompt)
}

func (s *CopilotService) record(ctx context.Context, event domain.AuditEvent, start time.Time) {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	event.LatencyMS = elapsedMS(start)

	logger.Debug("decision=%s max_sim=%.4f latency_ms=%.1f", event.Decision, event.MaxSim, event.LatencyMS)

	if s.audit != nil {
		s.audit.Write(ctx, event)
	}
}

// Fingerprint returns a short hex digest correlating a prompt with its audit record.
func Fingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// maxSimilarity returns the best score, or 0 when there are no results.
func maxSimilarity(results []domain.ScoredChunk) float64 {
	if len(results) == 0 {
		return 0
	}
	best := results[0].Similarity
	for _, r := range results[1:] {
		if r.Similarity > best {
			best = r.Similarity
		}
	}
	return best
}
