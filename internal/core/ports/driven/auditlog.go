package driven

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

// AuditLog records answered questions.
// Write never fails from the caller's point of view: implementations
// swallow their own errors.
type AuditLog interface {
	Write(ctx context.Context, event domain.AuditEvent)
}

// AuditReader lists previously written events, newest first.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
