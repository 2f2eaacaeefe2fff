package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService manages documents and folders.
type LibraryService struct {
	docStore    driven.LibraryStore
	folderStore driven.FolderStore
	pageCounter driven.PageCounter

	// keys serializes operations per document key so racing adds and
	// removes cannot produce lost updates.
	keys *keyedMutex
}

// NewLibraryService creates a library service. pageCounter is optional;
// without it documents are stored with a zero page count.
func NewLibraryService(
	docStore driven.LibraryStore,
	folderStore driven.FolderStore,
	pageCounter driven.PageCounter,
) *LibraryService {
	return &LibraryService{
		docStore:    docStore,
		folderStore: folderStore,
		pageCounter: pageCounter,
		keys:        newKeyedMutex(),
	}
}

// Add ingests a document. The composite key deduplicates re-uploads of
// the same physical file.
func (s *LibraryService) Add(ctx context.Context, doc domain.Document, folderID *string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if doc.Name == "" || doc.Size <= 0 {
		return nil, domain.ErrInvalidInput
	}

	key := doc.Key()
	unlock := s.keys.Lock(key)
	defer unlock()

	existing, err := s.docStore.GetDocument(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking existing document: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	if folderID != nil {
		if _, err := s.folder(ctx, *folderID); err != nil {
			return nil, err
		}
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now().UTC()
	}
	doc.FolderID = folderID

	if doc.PageCount == 0 && s.pageCounter != nil {
		count, err := s.pageCounter.PageCount(ctx, doc.Data)
		if err != nil {
			// Not fatal; the document is stored and the viewer will
			// simply have no views until it is replaced.
			logger.Warn("page count failed for %s: %v", doc.Name, err)
		} else {
			doc.PageCount = count
		}
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return &doc, nil
}

// Get retrieves a document by composite key.
func (s *LibraryService) Get(ctx context.Context, key string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, key)
}

// Remove deletes a document by composite key.
func (s *LibraryService) Remove(ctx context.Context, key string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}

	unlock := s.keys.Lock(key)
	defer unlock()

	if _, err := s.docStore.GetDocument(ctx, key); err != nil {
		return err
	}
	return s.docStore.DeleteDocument(ctx, key)
}

// Move reassigns a document to a folder, or clears the assignment when
// folderID is nil.
func (s *LibraryService) Move(ctx context.Context, key string, folderID *string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}

	unlock := s.keys.Lock(key)
	defer unlock()

	doc, err := s.docStore.GetDocument(ctx, key)
	if err != nil {
		return err
	}

	if folderID != nil {
		if _, err := s.folder(ctx, *folderID); err != nil {
			return err
		}
	}

	doc.FolderID = folderID
	return s.docStore.SaveDocument(ctx, doc)
}

// List returns all documents in arrival order.
func (s *LibraryService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx)
}

// ListByFolder returns a folder's documents in arrival order.
func (s *LibraryService) ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocumentsByFolder(ctx, folderID)
}

// CreateFolder creates a folder at the end of the sort order.
func (s *LibraryService) CreateFolder(ctx context.Context, name string) (*domain.Folder, error) {
	if s.folderStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	folders, err := s.folderStore.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	order := 0
	for _, f := range folders {
		if f.Order >= order {
			order = f.Order + 1
		}
	}

	folder := &domain.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Order:     order,
	}
	if err := s.folderStore.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("saving folder: %w", err)
	}
	return folder, nil
}

// RenameFolder changes a folder's display name.
func (s *LibraryService) RenameFolder(ctx context.Context, id, name string) error {
	if s.folderStore == nil {
		return domain.ErrNotImplemented
	}
	if name == "" {
		return domain.ErrInvalidInput
	}

	folder, err := s.folder(ctx, id)
	if err != nil {
		return err
	}
	folder.Name = name
	return s.folderStore.SaveFolder(ctx, folder)
}

// DeleteFolder clears the back-reference on every document in the
// folder, then removes the folder. A document must never be left
// referencing a nonexistent folder.
func (s *LibraryService) DeleteFolder(ctx context.Context, id string) error {
	if s.folderStore == nil || s.docStore == nil {
		return domain.ErrNotImplemented
	}

	if _, err := s.folder(ctx, id); err != nil {
		return err
	}
	if err := s.docStore.ClearFolderRefs(ctx, id); err != nil {
		return fmt.Errorf("clearing folder references: %w", err)
	}
	return s.folderStore.DeleteFolder(ctx, id)
}

// ListFolders returns all folders in sort order.
func (s *LibraryService) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	if s.folderStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.folderStore.ListFolders(ctx)
}

// Reconcile brings the persisted store into agreement with the given
// in-memory list: memory is authoritative, storage is the cache.
// Individual failures are logged and skipped.
func (s *LibraryService) Reconcile(ctx context.Context, docs []domain.Document) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}

	persisted, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing persisted documents: %w", err)
	}

	wanted := make(map[string]bool, len(docs))
	for i := range docs {
		wanted[docs[i].Key()] = true
	}
	have := make(map[string]bool, len(persisted))
	for i := range persisted {
		have[persisted[i].Key()] = true
	}

	for i := range docs {
		if have[docs[i].Key()] {
			continue
		}
		doc := docs[i]
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.AddedAt.IsZero() {
			doc.AddedAt = time.Now().UTC()
		}
		if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
			logger.Warn("reconcile: saving %s: %v", doc.Key(), err)
		}
	}

	for i := range persisted {
		key := persisted[i].Key()
		if wanted[key] {
			continue
		}
		if err := s.docStore.DeleteDocument(ctx, key); err != nil {
			logger.Warn("reconcile: deleting %s: %v", key, err)
		}
	}

	return nil
}

// folder fetches a folder, mapping a nil result to ErrNotFound.
func (s *LibraryService) folder(ctx context.Context, id string) (*domain.Folder, error) {
	folder, err := s.folderStore.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, domain.ErrNotFound
	}
	return folder, nil
}
