package memory

import (
	"context"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure MarkerStore implements the interface.
var _ driven.MarkerStore = (*MarkerStore)(nil)

// MarkerStore is an in-memory implementation of driven.MarkerStore.
type MarkerStore struct {
	mu   sync.RWMutex
	sets map[string]domain.MarkerSet
}

// NewMarkerStore creates a new in-memory marker store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		sets: make(map[string]domain.MarkerSet),
	}
}

// LoadMarkers returns the marker set for a document name.
func (s *MarkerStore) LoadMarkers(_ context.Context, fileName string) (*domain.MarkerSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[domain.MarkerSetKey(fileName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	set.Markers = append([]domain.Marker(nil), set.Markers...)
	return &set, nil
}

// SaveMarkers replaces the full set for the set's document name.
func (s *MarkerStore) SaveMarkers(_ context.Context, set *domain.MarkerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *set
	stored.Markers = append([]domain.Marker(nil), set.Markers...)
	s.sets[domain.MarkerSetKey(set.FileName)] = stored
	return nil
}

// DeleteMarkers removes the whole set for a document name.
func (s *MarkerStore) DeleteMarkers(_ context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, domain.MarkerSetKey(fileName))
	return nil
}
