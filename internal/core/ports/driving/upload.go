package driving

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// UploadService adds documents to the corpus.
type UploadService interface {
	// UploadPDF extracts text from a PDF, saves it into the corpus and rebuilds.
	UploadPDF(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)
}
