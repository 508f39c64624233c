package mcp

import (
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Copilot answers questions and manages the index.
	Copilot driving.CopilotService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Copilot == nil {
		return ErrMissingCopilotService
	}
	return nil
}
