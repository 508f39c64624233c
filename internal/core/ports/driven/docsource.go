package driven

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// DocumentSource loads the raw text corpus from a directory.
// Unreadable entries are skipped silently; a missing directory yields no documents.
type DocumentSource interface {
	Load(ctx context.Context, dir string) ([]domain.Document, error)
}
