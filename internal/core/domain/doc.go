// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A normalised source file from the docs directory
//   - Chunk: A bounded excerpt of a document, the unit of retrieval
//   - Vocabulary and Vector: The bag-of-words vector space
//   - QueryResult: Ranked chunks and their contributing sources
//   - IngestReport: Per-document outcomes of an ingestion run
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
