package driven

import (
	"context"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// LibraryStore persists documents. Backed by SQLite.
// Documents are keyed by their composite natural key (domain.Document.Key).
type LibraryStore interface {
	// SaveDocument stores a document under its key.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by key.
	GetDocument(ctx context.Context, key string) (*domain.Document, error)

	// DeleteDocument removes a document by key.
	DeleteDocument(ctx context.Context, key string) error

	// ListDocuments returns all documents in arrival order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListDocumentsByFolder returns documents in a folder, arrival order.
	ListDocumentsByFolder(ctx context.Context, folderID string) ([]domain.Document, error)

	// ClearFolderRefs clears the folder back-reference on every document
	// pointing at folderID.
	ClearFolderRefs(ctx context.Context, folderID string) error
}

// FolderStore persists folders.
type FolderStore interface {
	// SaveFolder stores or updates a folder.
	SaveFolder(ctx context.Context, folder *domain.Folder) error

	// GetFolder retrieves a folder by id.
	GetFolder(ctx context.Context, id string) (*domain.Folder, error)

	// DeleteFolder removes a folder by id. It does not touch documents;
	// the library service clears back-references first.
	DeleteFolder(ctx context.Context, id string) error

	// ListFolders returns all folders ordered by their sort order.
	ListFolders(ctx context.Context) ([]domain.Folder, error)
}
