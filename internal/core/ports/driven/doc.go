// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Converts text to vectors. Failures propagate.
//   - LLMService: Generates answers. Failures are contained by the caller.
//   - TokenCounter: Measures and tails text for the chunker
//   - DocumentSource: Loads the raw text corpus
//   - PostProcessorPipeline: Turns documents into chunks
//   - AuditLog: Best-effort append-only event sink
//   - ConfigStore: Application configuration file
//
// # Optional Interfaces
//
//   - PDFExtractor: Only needed for PDF uploads.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven
