package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure FolderStore implements the interface.
var _ driven.FolderStore = (*FolderStore)(nil)

// FolderStore is an in-memory implementation of driven.FolderStore.
type FolderStore struct {
	mu      sync.RWMutex
	folders map[string]domain.Folder
}

// NewFolderStore creates a new in-memory folder store.
func NewFolderStore() *FolderStore {
	return &FolderStore{
		folders: make(map[string]domain.Folder),
	}
}

// SaveFolder stores or updates a folder.
func (s *FolderStore) SaveFolder(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folder.ID] = *folder
	return nil
}

// GetFolder retrieves a folder by id.
func (s *FolderStore) GetFolder(_ context.Context, id string) (*domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	folder, ok := s.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &folder, nil
}

// DeleteFolder removes a folder by id.
func (s *FolderStore) DeleteFolder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folders, id)
	return nil
}

// ListFolders returns all folders ordered by their sort order.
func (s *FolderStore) ListFolders(_ context.Context) ([]domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Folder, 0, len(s.folders))
	for _, folder := range s.folders {
		result = append(result, folder)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result, nil
}
