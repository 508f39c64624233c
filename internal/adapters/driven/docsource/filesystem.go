// Package docsource loads the plain-text corpus from the local filesystem.
package docsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// Extension is the file extension indexed from the data directory.
const Extension = ".txt"

var _ driven.DocumentSource = (*Filesystem)(nil)

// Filesystem reads *.txt files from a single directory, sorted by name.
type Filesystem struct{}

// NewFilesystem creates a filesystem document source.
func NewFilesystem() *Filesystem {
	return &Filesystem{}
}

// Load returns one document per readable *.txt file in dir.
// Subdirectories are not scanned. Invalid UTF-8 bytes are dropped.
func (f *Filesystem) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("data directory %s does not exist", dir)
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isCorpusFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]domain.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		doc, ok := readDocument(path, name)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}

	logger.Debug("loaded %d documents from %s", len(docs), dir)
	return docs, nil
}

// isCorpusFile reports whether a base name is a visible file with the
// corpus extension. The extension match is case-sensitive.
func isCorpusFile(name string) bool {
	return !strings.HasPrefix(name, ".") && filepath.Ext(name) == Extension
}

func readDocument(path, name string) (domain.Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("skipping unreadable %s: %v", path, err)
		return domain.Document{}, false
	}

	doc := domain.Document{
		ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)).String(),
		Origin:  name,
		Content: strings.ToValidUTF8(string(data), ""),
	}
	if info, err := os.Stat(path); err == nil {
		doc.ModifiedAt = info.ModTime()
	}
	return doc, true
}
