// Package audit provides append-only audit sinks for answered questions.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// FileName is the audit log file name inside the log directory.
const FileName = "events.jsonl"

var _ driven.AuditLog = (*JSONL)(nil)

// JSONL appends one JSON object per line to <dir>/events.jsonl.
// The directory and file are created on first write.
type JSONL struct {
	mu   sync.Mutex
	path string
}

// NewJSONL creates a JSONL sink writing under dir.
func NewJSONL(dir string) *JSONL {
	return &JSONL{path: filepath.Join(dir, FileName)}
}

// Path returns the log file path.
func (j *JSONL) Path() string {
	return j.path
}

// Write appends the event. Failures are logged and swallowed.
func (j *JSONL) Write(_ context.Context, event domain.AuditEvent) {
	if err := j.append(event); err != nil {
		logger.Warn("audit log write failed: %v", err)
	}
}

func (j *JSONL) append(event domain.AuditEvent) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", j.path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", j.path, err)
	}
	return nil
}
