// Package domain defines the core business entities for the risk copilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Raw text loaded from the corpus directory
//   - Chunk: A token-budgeted retrieval unit cut from a document
//   - Answer: A guarded answer plus the sources that were considered
//   - AuditEvent: One append-only record per answered question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
