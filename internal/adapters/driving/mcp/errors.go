// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// risk copilot. It lets AI assistants ask grounded questions over the corpus.
package mcp

import "errors"

// ErrMissingCopilotService is returned when the copilot service is not provided.
var ErrMissingCopilotService = errors.New("mcp: copilot service is required")
