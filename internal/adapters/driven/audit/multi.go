package audit

import (
	"context"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

var _ driven.AuditLog = Multi(nil)

// Multi writes each event to every sink in order.
type Multi []driven.AuditLog

// Write forwards the event to all non-nil sinks.
func (m Multi) Write(ctx context.Context, event domain.AuditEvent) {
	for _, sink := range m {
		if sink != nil {
			sink.Write(ctx, event)
		}
	}
}
