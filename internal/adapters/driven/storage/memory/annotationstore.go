package memory

import (
	"context"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure AnnotationStore implements the interface.
var _ driven.AnnotationStore = (*AnnotationStore)(nil)

// AnnotationStore is an in-memory implementation of driven.AnnotationStore.
type AnnotationStore struct {
	mu   sync.RWMutex
	sets map[string]domain.AnnotationSet
}

// NewAnnotationStore creates a new in-memory annotation store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		sets: make(map[string]domain.AnnotationSet),
	}
}

// LoadAnnotations returns the annotation set for a document name.
func (s *AnnotationStore) LoadAnnotations(_ context.Context, fileName string) (*domain.AnnotationSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[domain.AnnotationSetKey(fileName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	set.Annotations = append([]domain.Annotation(nil), set.Annotations...)
	return &set, nil
}

// SaveAnnotations replaces the full set for the set's document name.
func (s *AnnotationStore) SaveAnnotations(_ context.Context, set *domain.AnnotationSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *set
	stored.Annotations = append([]domain.Annotation(nil), set.Annotations...)
	s.sets[domain.AnnotationSetKey(set.FileName)] = stored
	return nil
}

// DeleteAnnotations removes the whole set for a document name.
func (s *AnnotationStore) DeleteAnnotations(_ context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, domain.AnnotationSetKey(fileName))
	return nil
}
