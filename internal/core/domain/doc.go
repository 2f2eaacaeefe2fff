// Package domain defines the core business entities for Scoreleaf.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded sheet-music PDF with metadata
//   - Folder: An optional grouping of documents
//   - Marker: A point-to-point jump link between two views
//   - Annotation: A symbol or text glyph fixed at a view coordinate
//   - ViewConfiguration: The half-page composition of one view
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
