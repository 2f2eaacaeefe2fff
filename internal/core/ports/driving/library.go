package driving

import (
	"context"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// LibraryService manages the persisted set of documents and folders.
// All operations are serialized per document key; racing adds and
// removes for the same key never interleave.
type LibraryService interface {
	// Add ingests a document, optionally into a folder. Re-uploading a
	// document with an identical composite key yields
	// domain.ErrAlreadyExists.
	Add(ctx context.Context, doc domain.Document, folderID *string) (*domain.Document, error)

	// Get retrieves a document by composite key.
	Get(ctx context.Context, key string) (*domain.Document, error)

	// Remove deletes a document by composite key.
	Remove(ctx context.Context, key string) error

	// Move reassigns a document to a folder, or to no folder when
	// folderID is nil. Moving to a nonexistent folder fails with
	// domain.ErrNotFound and leaves state unchanged.
	Move(ctx context.Context, key string, folderID *string) error

	// List returns all documents in arrival order.
	List(ctx context.Context) ([]domain.Document, error)

	// ListByFolder returns a folder's documents in arrival order.
	ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error)

	// CreateFolder creates a folder appended at the end of the order.
	CreateFolder(ctx context.Context, name string) (*domain.Folder, error)

	// RenameFolder changes a folder's display name.
	RenameFolder(ctx context.Context, id, name string) error

	// DeleteFolder removes a folder after clearing the back-reference
	// on every document pointing at it.
	DeleteFolder(ctx context.Context, id string) error

	// ListFolders returns all folders in sort order.
	ListFolders(ctx context.Context) ([]domain.Folder, error)

	// Reconcile brings persisted storage into agreement with the given
	// in-memory document list: missing documents are added, extra ones
	// deleted. Memory is authoritative.
	Reconcile(ctx context.Context, docs []domain.Document) error
}
