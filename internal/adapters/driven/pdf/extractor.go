// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// DefaultMaxPages caps the pages read when no limit is configured.
const DefaultMaxPages = 50

var _ driven.PDFExtractor = (*Extractor)(nil)

// Extractor reads page text with ledongthuc/pdf.
type Extractor struct {
	maxPages int
}

// NewExtractor creates an extractor reading at most maxPages pages.
func NewExtractor(maxPages int) *Extractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Extractor{maxPages: maxPages}
}

// Extract returns the trimmed text of each non-blank page joined by a
// blank line. Pages that fail to decode are dropped.
func (e *Extractor) Extract(_ context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}

	n := reader.NumPage()
	if n > e.maxPages {
		logger.Debug("PDF has %d pages, reading the first %d", n, e.maxPages)
		n = e.maxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if t := strings.TrimSpace(pageText(reader, i)); t != "" {
			pages = append(pages, t)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("page %d: %v", num, r)
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Debug("page %d: %v", num, err)
		return ""
	}
	return text
}
