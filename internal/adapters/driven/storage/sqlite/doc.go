// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - LibraryStore: document persistence, keyed by the composite natural key
//   - FolderStore: folder persistence
//   - MarkerStore: per-document marker set persistence
//   - AnnotationStore: per-document annotation set persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Marker and annotation sets are stored as whole JSON
// arrays per document; a save replaces the entire set.
//
// # Data Location
//
// By default, the database is stored at ~/.scoreleaf/data/library.db
//
// # Legacy Import
//
// ImportLegacy migrates the old single-file JSON key-value export into the
// relational tables. See legacy.go.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
