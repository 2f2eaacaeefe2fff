package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all persistence interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.scoreleaf/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scoreleaf", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LibraryStore returns a LibraryStore interface backed by this store.
func (s *Store) LibraryStore() driven.LibraryStore {
	return &libraryStore{store: s}
}

// FolderStore returns a FolderStore interface backed by this store.
func (s *Store) FolderStore() driven.FolderStore {
	return &folderStore{store: s}
}

// MarkerStore returns a MarkerStore interface backed by this store.
func (s *Store) MarkerStore() driven.MarkerStore {
	return &markerStore{store: s}
}

// AnnotationStore returns an AnnotationStore interface backed by this store.
func (s *Store) AnnotationStore() driven.AnnotationStore {
	return &annotationStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Library Store ====================

// libraryStore implements driven.LibraryStore.
type libraryStore struct {
	store *Store
}

var _ driven.LibraryStore = (*libraryStore)(nil)

// SaveDocument stores or updates a document under its composite key.
func (s *libraryStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (key, id, name, size, media_type, data, last_modified, added_at, folder_id, page_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			name = excluded.name,
			size = excluded.size,
			media_type = excluded.media_type,
			data = excluded.data,
			last_modified = excluded.last_modified,
			added_at = excluded.added_at,
			folder_id = excluded.folder_id,
			page_count = excluded.page_count
	`, doc.Key(), doc.ID, doc.Name, doc.Size, doc.MediaType, doc.Data,
		doc.LastModified, doc.AddedAt, doc.FolderID, doc.PageCount)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by composite key.
func (s *libraryStore) GetDocument(ctx context.Context, key string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, size, media_type, data, last_modified, added_at, folder_id, page_count
		FROM documents WHERE key = ?
	`, key)

	var doc domain.Document
	var folderID sql.NullString
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Size, &doc.MediaType, &doc.Data,
		&doc.LastModified, &doc.AddedAt, &folderID, &doc.PageCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if folderID.Valid {
		doc.FolderID = &folderID.String
	}

	return &doc, nil
}

// DeleteDocument removes a document by composite key.
func (s *libraryStore) DeleteDocument(ctx context.Context, key string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns all documents in arrival order.
func (s *libraryStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, size, media_type, data, last_modified, added_at, folder_id, page_count
		FROM documents ORDER BY added_at, key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListDocumentsByFolder returns documents in a folder, arrival order.
func (s *libraryStore) ListDocumentsByFolder(ctx context.Context, folderID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, size, media_type, data, last_modified, added_at, folder_id, page_count
		FROM documents WHERE folder_id = ? ORDER BY added_at, key
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("querying documents by folder: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ClearFolderRefs clears the folder back-reference on every document
// pointing at folderID.
func (s *libraryStore) ClearFolderRefs(ctx context.Context, folderID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET folder_id = NULL WHERE folder_id = ?", folderID)
	if err != nil {
		return fmt.Errorf("clearing folder references: %w", err)
	}
	return nil
}

// scanDocuments scans multiple document rows.
func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var folderID sql.NullString
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Size, &doc.MediaType, &doc.Data,
			&doc.LastModified, &doc.AddedAt, &folderID, &doc.PageCount); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if folderID.Valid {
			doc.FolderID = &folderID.String
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Folder Store ====================

// folderStore implements driven.FolderStore.
type folderStore struct {
	store *Store
}

var _ driven.FolderStore = (*folderStore)(nil)

// SaveFolder stores or updates a folder.
func (s *folderStore) SaveFolder(ctx context.Context, folder *domain.Folder) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, created_at, sort_order)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			created_at = excluded.created_at,
			sort_order = excluded.sort_order
	`, folder.ID, folder.Name, folder.CreatedAt, folder.Order)

	if err != nil {
		return fmt.Errorf("saving folder: %w", err)
	}
	return nil
}

// GetFolder retrieves a folder by id.
func (s *folderStore) GetFolder(ctx context.Context, id string) (*domain.Folder, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, sort_order FROM folders WHERE id = ?
	`, id)

	var folder domain.Folder
	if err := row.Scan(&folder.ID, &folder.Name, &folder.CreatedAt, &folder.Order); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning folder: %w", err)
	}

	return &folder, nil
}

// DeleteFolder removes a folder by id.
func (s *folderStore) DeleteFolder(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}
	return nil
}

// ListFolders returns all folders ordered by their sort order.
func (s *folderStore) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, created_at, sort_order FROM folders ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("querying folders: %w", err)
	}
	defer rows.Close()

	var folders []domain.Folder //nolint:prealloc // size unknown from query
	for rows.Next() {
		var folder domain.Folder
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.CreatedAt, &folder.Order); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating folders: %w", err)
	}

	return folders, nil
}

// ==================== Marker Store ====================

// markerStore implements driven.MarkerStore.
type markerStore struct {
	store *Store
}

var _ driven.MarkerStore = (*markerStore)(nil)

// LoadMarkers returns the marker set for a document name.
func (s *markerStore) LoadMarkers(ctx context.Context, fileName string) (*domain.MarkerSet, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, file_name, markers, last_modified FROM marker_sets WHERE key = ?
	`, domain.MarkerSetKey(fileName))

	var set domain.MarkerSet
	var markersJSON string
	if err := row.Scan(&set.ID, &set.FileName, &markersJSON, &set.LastModified); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning marker set: %w", err)
	}

	markers, err := decodeMarkers(markersJSON)
	if err != nil {
		return nil, err
	}
	set.Markers = markers

	return &set, nil
}

// SaveMarkers replaces the full set for the set's document name.
func (s *markerStore) SaveMarkers(ctx context.Context, set *domain.MarkerSet) error {
	markersJSON, err := encodeMarkers(set.Markers)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO marker_sets (key, id, file_name, markers, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			file_name = excluded.file_name,
			markers = excluded.markers,
			last_modified = excluded.last_modified
	`, domain.MarkerSetKey(set.FileName), set.ID, set.FileName, markersJSON, set.LastModified)

	if err != nil {
		return fmt.Errorf("saving marker set: %w", err)
	}
	return nil
}

// DeleteMarkers removes the whole set for a document name.
func (s *markerStore) DeleteMarkers(ctx context.Context, fileName string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM marker_sets WHERE key = ?", domain.MarkerSetKey(fileName))
	if err != nil {
		return fmt.Errorf("deleting marker set: %w", err)
	}
	return nil
}

// ==================== Annotation Store ====================

// annotationStore implements driven.AnnotationStore.
type annotationStore struct {
	store *Store
}

var _ driven.AnnotationStore = (*annotationStore)(nil)

// LoadAnnotations returns the annotation set for a document name.
func (s *annotationStore) LoadAnnotations(ctx context.Context, fileName string) (*domain.AnnotationSet, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, file_name, annotations, last_modified FROM annotation_sets WHERE key = ?
	`, domain.AnnotationSetKey(fileName))

	var set domain.AnnotationSet
	var annotationsJSON string
	if err := row.Scan(&set.ID, &set.FileName, &annotationsJSON, &set.LastModified); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning annotation set: %w", err)
	}

	annotations, err := decodeAnnotations(annotationsJSON)
	if err != nil {
		return nil, err
	}
	set.Annotations = annotations

	return &set, nil
}

// SaveAnnotations replaces the full set for the set's document name.
func (s *annotationStore) SaveAnnotations(ctx context.Context, set *domain.AnnotationSet) error {
	annotationsJSON, err := encodeAnnotations(set.Annotations)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO annotation_sets (key, id, file_name, annotations, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			file_name = excluded.file_name,
			annotations = excluded.annotations,
			last_modified = excluded.last_modified
	`, domain.AnnotationSetKey(set.FileName), set.ID, set.FileName, annotationsJSON, set.LastModified)

	if err != nil {
		return fmt.Errorf("saving annotation set: %w", err)
	}
	return nil
}

// DeleteAnnotations removes the whole set for a document name.
func (s *annotationStore) DeleteAnnotations(ctx context.Context, fileName string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM annotation_sets WHERE key = ?", domain.AnnotationSetKey(fileName))
	if err != nil {
		return fmt.Errorf("deleting annotation set: %w", err)
	}
	return nil
}

// ==================== JSON Records ====================

// markerRecord is the stored JSON shape of a marker. Field names match
// the legacy flat key-value export so old data imports unchanged.
type markerRecord struct {
	ID         string  `json:"id"`
	View       int     `json:"page"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	TargetView int     `json:"targetPage"`
	TargetX    float64 `json:"targetX"`
	TargetY    float64 `json:"targetY"`
	ColorIndex int     `json:"colorIndex"`
}

// annotationRecord is the stored JSON shape of an annotation.
type annotationRecord struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text,omitempty"`
	Page int     `json:"page"`
}

func encodeMarkers(markers []domain.Marker) (string, error) {
	records := make([]markerRecord, 0, len(markers))
	for _, m := range markers {
		records = append(records, markerRecord(m))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshalling markers: %w", err)
	}
	return string(data), nil
}

func decodeMarkers(markersJSON string) ([]domain.Marker, error) {
	if markersJSON == "" {
		return nil, nil
	}
	var records []markerRecord
	if err := json.Unmarshal([]byte(markersJSON), &records); err != nil {
		return nil, fmt.Errorf("unmarshalling markers: %w", err)
	}
	markers := make([]domain.Marker, 0, len(records))
	for _, r := range records {
		markers = append(markers, domain.Marker(r))
	}
	return markers, nil
}

func encodeAnnotations(annotations []domain.Annotation) (string, error) {
	records := make([]annotationRecord, 0, len(annotations))
	for _, a := range annotations {
		records = append(records, annotationRecord{
			ID:   a.ID,
			Type: string(a.Type),
			X:    a.X,
			Y:    a.Y,
			Text: a.Text,
			Page: a.Page,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshalling annotations: %w", err)
	}
	return string(data), nil
}

func decodeAnnotations(annotationsJSON string) ([]domain.Annotation, error) {
	if annotationsJSON == "" {
		return nil, nil
	}
	var records []annotationRecord
	if err := json.Unmarshal([]byte(annotationsJSON), &records); err != nil {
		return nil, fmt.Errorf("unmarshalling annotations: %w", err)
	}
	annotations := make([]domain.Annotation, 0, len(records))
	for _, r := range records {
		annotations = append(annotations, domain.Annotation{
			ID:   r.ID,
			Type: domain.AnnotationType(r.Type),
			X:    r.X,
			Y:    r.Y,
			Text: r.Text,
			Page: r.Page,
		})
	}
	return annotations, nil
}
