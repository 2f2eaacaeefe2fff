package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure LibraryStore implements the interface.
var _ driven.LibraryStore = (*LibraryStore)(nil)

// LibraryStore is an in-memory implementation of driven.LibraryStore.
// It also serves as the degraded-mode store when SQLite cannot open.
type LibraryStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewLibraryStore creates a new in-memory library store.
func NewLibraryStore() *LibraryStore {
	return &LibraryStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document under its composite key.
func (s *LibraryStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Key()] = *doc
	return nil
}

// GetDocument retrieves a document by composite key.
func (s *LibraryStore) GetDocument(_ context.Context, key string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document by composite key.
func (s *LibraryStore) DeleteDocument(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, key)
	return nil
}

// ListDocuments returns all documents in arrival order.
func (s *LibraryStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		result = append(result, doc)
	}
	sortByArrival(result)
	return result, nil
}

// ListDocumentsByFolder returns documents in a folder, arrival order.
func (s *LibraryStore) ListDocumentsByFolder(_ context.Context, folderID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for _, doc := range s.documents {
		if doc.FolderID != nil && *doc.FolderID == folderID {
			result = append(result, doc)
		}
	}
	sortByArrival(result)
	return result, nil
}

// ClearFolderRefs clears the folder back-reference on every document
// pointing at folderID.
func (s *LibraryStore) ClearFolderRefs(_ context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, doc := range s.documents {
		if doc.FolderID != nil && *doc.FolderID == folderID {
			doc.FolderID = nil
			s.documents[key] = doc
		}
	}
	return nil
}

func sortByArrival(docs []domain.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].AddedAt.Equal(docs[j].AddedAt) {
			return docs[i].AddedAt.Before(docs[j].AddedAt)
		}
		return docs[i].Key() < docs[j].Key()
	})
}
