package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// unsafeName matches runs of characters not allowed in saved file names.
var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// pdfContentTypes are the upload content types accepted as PDF.
var pdfContentTypes = map[string]bool{
	"application/pdf":          true,
	"application/octet-stream": true,
}

// IsPDFContentType reports whether an upload content type is accepted.
func IsPDFContentType(contentType string) bool {
	return pdfContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// SafeFileName replaces disallowed characters with underscores.
// An empty name becomes "document".
func SafeFileName(name string) string {
	if name == "" {
		name = "document"
	}
	return unsafeName.ReplaceAllString(name, "_")
}

// UploadService turns uploaded PDFs into corpus text files.
type UploadService struct {
	extractor driven.PDFExtractor
	index     *IndexManager
	dataDir   string
	now       func() time.Time
}

// NewUploadService creates a new upload service.
func NewUploadService(extractor driven.PDFExtractor, index *IndexManager, dataDir string) *UploadService {
	return &UploadService{
		extractor: extractor,
		index:     index,
		dataDir:   dataDir,
		now:       time.Now,
	}
}

// UploadPDF extracts text from a PDF, saves it as DATA_DIR/<unix>_<safe>.txt
// and rebuilds the index so the text is immediately searchable.
func (s *UploadService) UploadPDF(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoExtractableText, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoExtractableText
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s.txt", s.now().Unix(), SafeFileName(filename))
	if err := os.WriteFile(filepath.Join(s.dataDir, name), []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("saving extracted text: %w", err)
	}
	logger.Info("saved %s (%d bytes of text)", name, len(text))

	rebuilt, err := s.index.Rebuild(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.UploadResult{Saved: name, RebuildResult: *rebuilt}, nil
}
