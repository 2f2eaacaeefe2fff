package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
)

// Ensure MarkerService implements the interface.
var _ driving.MarkerService = (*MarkerService)(nil)

// markerHitRadiusPx is the click radius around a marker origin, in
// pixels at the current render scale.
const markerHitRadiusPx = 20.0

// pendingOrigin is the first click of the two-click capture protocol.
type pendingOrigin struct {
	view int
	x, y float64
}

// MarkerService owns per-document marker sets and the capture protocol
// state machine: Idle -> AwaitingOrigin -> AwaitingTarget -> Idle.
type MarkerService struct {
	store driven.MarkerStore

	mu      sync.Mutex
	sets    map[string]*domain.MarkerSet
	state   driving.CaptureState
	pending *pendingOrigin

	// writes serializes saves per set key so a newer snapshot is never
	// overwritten by an older one.
	writes *keyedMutex
}

// NewMarkerService creates a marker service.
func NewMarkerService(store driven.MarkerStore) *MarkerService {
	return &MarkerService{
		store:  store,
		sets:   make(map[string]*domain.MarkerSet),
		writes: newKeyedMutex(),
	}
}

// Load fetches the persisted set for a document name into memory.
// A document without saved markers loads as an empty set.
func (s *MarkerService) Load(ctx context.Context, fileName string) ([]domain.Marker, error) {
	set, err := s.store.LoadMarkers(ctx, fileName)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("loading markers: %w", err)
		}
		set = &domain.MarkerSet{ID: uuid.NewString(), FileName: fileName}
	}

	s.mu.Lock()
	s.sets[fileName] = set
	markers := append([]domain.Marker(nil), set.Markers...)
	s.mu.Unlock()

	return markers, nil
}

// List returns the in-memory markers for a document name.
func (s *MarkerService) List(fileName string) []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[fileName]
	if !ok {
		return nil
	}
	return append([]domain.Marker(nil), set.Markers...)
}

// StartCapture transitions Idle -> AwaitingOrigin. Calling it during a
// capture restarts from AwaitingOrigin.
func (s *MarkerService) StartCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = driving.CaptureAwaitingOrigin
	s.pending = nil
}

// CancelCapture discards pending state and returns to Idle.
func (s *MarkerService) CancelCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = driving.CaptureIdle
	s.pending = nil
}

// State returns the current capture state.
func (s *MarkerService) State() driving.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RecordClick feeds a click to the capture protocol. The completed
// marker is returned on the target click; the origin click returns nil.
func (s *MarkerService) RecordClick(ctx context.Context, fileName string, view int, x, y float64) (*domain.Marker, error) {
	if view < 1 || !inUnitRange(x) || !inUnitRange(y) {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	switch s.state {
	case driving.CaptureAwaitingOrigin:
		s.pending = &pendingOrigin{view: view, x: x, y: y}
		s.state = driving.CaptureAwaitingTarget
		s.mu.Unlock()
		return nil, nil

	case driving.CaptureAwaitingTarget:
		set := s.setLocked(fileName)
		marker := domain.Marker{
			ID:         uuid.NewString(),
			View:       s.pending.view,
			X:          s.pending.x,
			Y:          s.pending.y,
			TargetView: view,
			TargetX:    x,
			TargetY:    y,
			ColorIndex: len(set.Markers),
		}
		set.Markers = append(set.Markers, marker)
		s.state = driving.CaptureIdle
		s.pending = nil
		s.mu.Unlock()

		if err := s.persist(ctx, fileName); err != nil {
			return nil, err
		}
		return &marker, nil

	default:
		s.mu.Unlock()
		return nil, domain.ErrInvalidInput
	}
}

// HitTest returns the first marker whose origin point on the given view
// lies within the hit radius of the click. Target points are not
// clickable.
func (s *MarkerService) HitTest(fileName string, view int, x, y float64, canvasW, canvasH int) *domain.Marker {
	if canvasW <= 0 || canvasH <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[fileName]
	if !ok {
		return nil
	}

	px := x * float64(canvasW)
	py := y * float64(canvasH)
	for i := range set.Markers {
		m := &set.Markers[i]
		if m.View != view {
			continue
		}
		dx := px - m.X*float64(canvasW)
		dy := py - m.Y*float64(canvasH)
		if math.Hypot(dx, dy) <= markerHitRadiusPx {
			marker := *m
			return &marker
		}
	}
	return nil
}

// Delete removes a marker by id and persists the shrunken set.
// Colour indexes of remaining markers are not reassigned.
func (s *MarkerService) Delete(ctx context.Context, fileName, id string) error {
	s.mu.Lock()
	set, ok := s.sets[fileName]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}

	found := false
	kept := set.Markers[:0]
	for _, m := range set.Markers {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	set.Markers = kept
	s.mu.Unlock()

	if !found {
		return domain.ErrNotFound
	}
	return s.persist(ctx, fileName)
}

// persist saves the full current set for fileName. The snapshot is
// taken under the per-key write lock, so concurrent saves apply in
// order and each write carries the state current at its turn.
func (s *MarkerService) persist(ctx context.Context, fileName string) error {
	unlock := s.writes.Lock(domain.MarkerSetKey(fileName))
	defer unlock()

	s.mu.Lock()
	set, ok := s.sets[fileName]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := &domain.MarkerSet{
		ID:           set.ID,
		FileName:     set.FileName,
		Markers:      append([]domain.Marker(nil), set.Markers...),
		LastModified: time.Now().UTC(),
	}
	s.mu.Unlock()

	if err := s.store.SaveMarkers(ctx, snapshot); err != nil {
		return fmt.Errorf("saving markers: %w", err)
	}
	return nil
}

// setLocked returns the set for fileName, creating it when a document
// is marked before any explicit Load. Caller holds s.mu.
func (s *MarkerService) setLocked(fileName string) *domain.MarkerSet {
	set, ok := s.sets[fileName]
	if !ok {
		set = &domain.MarkerSet{ID: uuid.NewString(), FileName: fileName}
		s.sets[fileName] = set
	}
	return set
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
