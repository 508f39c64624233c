package mcp

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// mockCopilotService is a mock implementation of driving.CopilotService.
type mockCopilotService struct {
	answer    *domain.Answer
	rebuild   *domain.RebuildResult
	stats     domain.IndexStats
	err       error
	questions []string
}

func (m *mockCopilotService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

func (m *mockCopilotService) Rebuild(_ context.Context) (*domain.RebuildResult, error) {
	return m.rebuild, m.err
}

func (m *mockCopilotService) Stats(_ context.Context) domain.IndexStats {
	return m.stats
}
