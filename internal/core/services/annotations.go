package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
)

// Ensure AnnotationService implements the interface.
var _ driving.AnnotationService = (*AnnotationService)(nil)

// pendingPlacement is the recorded symbol awaiting its placement click.
type pendingPlacement struct {
	typ  domain.AnnotationType
	text string
}

// AnnotationService owns per-document annotation sets and the
// pending-placement protocol.
type AnnotationService struct {
	store driven.AnnotationStore

	mu      sync.Mutex
	sets    map[string]*domain.AnnotationSet
	pending *pendingPlacement

	writes *keyedMutex
}

// NewAnnotationService creates an annotation service.
func NewAnnotationService(store driven.AnnotationStore) *AnnotationService {
	return &AnnotationService{
		store:  store,
		sets:   make(map[string]*domain.AnnotationSet),
		writes: newKeyedMutex(),
	}
}

// Load fetches the persisted set for a document name into memory.
// A document without saved annotations loads as an empty set.
func (s *AnnotationService) Load(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	set, err := s.store.LoadAnnotations(ctx, fileName)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("loading annotations: %w", err)
		}
		set = &domain.AnnotationSet{ID: uuid.NewString(), FileName: fileName}
	}

	s.mu.Lock()
	s.sets[fileName] = set
	annotations := append([]domain.Annotation(nil), set.Annotations...)
	s.mu.Unlock()

	return annotations, nil
}

// List returns the in-memory annotations for a document name.
func (s *AnnotationService) List(fileName string) []domain.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[fileName]
	if !ok {
		return nil
	}
	return append([]domain.Annotation(nil), set.Annotations...)
}

// BeginPlacement records a pending symbol type. Text annotations
// require a non-empty payload; other types carry no text.
func (s *AnnotationService) BeginPlacement(typ domain.AnnotationType, text string) error {
	if !typ.Valid() {
		return domain.ErrInvalidInput
	}
	if typ == domain.AnnotationText && strings.TrimSpace(text) == "" {
		return domain.ErrInvalidInput
	}
	if typ != domain.AnnotationText {
		text = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &pendingPlacement{typ: typ, text: text}
	return nil
}

// CancelPlacement clears pending state without creating an annotation.
func (s *AnnotationService) CancelPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// PlacementPending reports whether a placement awaits a click.
func (s *AnnotationService) PlacementPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// PlaceClick consumes the pending placement at the click position on
// the given view and persists the grown set.
func (s *AnnotationService) PlaceClick(ctx context.Context, fileName string, view int, x, y float64) (*domain.Annotation, error) {
	if view < 1 || !inUnitRange(x) || !inUnitRange(y) {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoPendingPlacement
	}

	set := s.annotationSetLocked(fileName)
	annotation := domain.Annotation{
		ID:   uuid.NewString(),
		Type: s.pending.typ,
		X:    x,
		Y:    y,
		Text: s.pending.text,
		Page: view,
	}
	set.Annotations = append(set.Annotations, annotation)
	s.pending = nil
	s.mu.Unlock()

	if err := s.persist(ctx, fileName); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// Delete removes an annotation by id and persists the shrunken set.
func (s *AnnotationService) Delete(ctx context.Context, fileName, id string) error {
	s.mu.Lock()
	set, ok := s.sets[fileName]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}

	found := false
	kept := set.Annotations[:0]
	for _, a := range set.Annotations {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	set.Annotations = kept
	s.mu.Unlock()

	if !found {
		return domain.ErrNotFound
	}
	return s.persist(ctx, fileName)
}

// persist saves the full current set for fileName under the per-key
// write lock, same contract as the marker service.
func (s *AnnotationService) persist(ctx context.Context, fileName string) error {
	unlock := s.writes.Lock(domain.AnnotationSetKey(fileName))
	defer unlock()

	s.mu.Lock()
	set, ok := s.sets[fileName]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := &domain.AnnotationSet{
		ID:           set.ID,
		FileName:     set.FileName,
		Annotations:  append([]domain.Annotation(nil), set.Annotations...),
		LastModified: time.Now().UTC(),
	}
	s.mu.Unlock()

	if err := s.store.SaveAnnotations(ctx, snapshot); err != nil {
		return fmt.Errorf("saving annotations: %w", err)
	}
	return nil
}

func (s *AnnotationService) annotationSetLocked(fileName string) *domain.AnnotationSet {
	set, ok := s.sets[fileName]
	if !ok {
		set = &domain.AnnotationSet{ID: uuid.NewString(), FileName: fileName}
		s.sets[fileName] = set
	}
	return set
}
