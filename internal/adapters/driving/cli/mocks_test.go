package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// mockCopilotService implements driving.CopilotService for testing.
type mockCopilotService struct {
	answer    *domain.Answer
	rebuild   *domain.RebuildResult
	stats     domain.IndexStats
	err       error
	questions []string
	rebuilds  int
}

func (m *mockCopilotService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

func (m *mockCopilotService) Rebuild(_ context.Context) (*domain.RebuildResult, error) {
	m.rebuilds++
	return m.rebuild, m.err
}

func (m *mockCopilotService) Stats(_ context.Context) domain.IndexStats {
	return m.stats
}

// mockUploadService implements driving.UploadService for testing.
type mockUploadService struct {
	result   *domain.UploadResult
	err      error
	filename string
	data     []byte
}

func (m *mockUploadService) UploadPDF(_ context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	m.filename = filename
	m.data = data
	return m.result, m.err
}

var _ driven.AuditReader = (*mockAuditReader)(nil)

// mockAuditReader implements driven.AuditReader for testing.
type mockAuditReader struct {
	events []domain.AuditEvent
	err    error
	limit  int
}

func (m *mockAuditReader) Recent(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	m.limit = limit
	return m.events, m.err
}

// setupTestServices installs mocks and resets flag state.
func setupTestServices(copilot *mockCopilotService) func() {
	oldCopilot, oldUpload, oldAudit, oldSettings := copilotService, uploadService, auditReader, appSettings
	copilotService = copilot
	appSettings = domain.DefaultAppSettings()
	return func() {
		copilotService, uploadService, auditReader, appSettings = oldCopilot, oldUpload, oldAudit, oldSettings
		askJSON, rebuildJSON, statsJSON, auditJSON = false, false, false, false
		auditLimit = 20
		configPath, envFile = "", ".env"
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
