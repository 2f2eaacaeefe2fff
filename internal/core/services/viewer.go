package services

import (
	"context"
	"image"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// Ensure ViewerSession implements the interface.
var _ driving.ViewerSession = (*ViewerSession)(nil)

// ViewerSession holds the state the viewer shell drives for one open
// document: current view, zoom scale, click dispatch and rendering.
type ViewerSession struct {
	library     driving.LibraryService
	markers     driving.MarkerService
	annotations driving.AnnotationService
	compositor  driving.Compositor
	settings    driving.SettingsService

	mu    sync.Mutex
	doc   *domain.Document
	view  int
	scale float64

	// generation increments on every view/document/scale change;
	// a composite finishing under an old generation is discarded.
	generation uint64

	// canvasW/H is the pixel size of the last committed render, used
	// to resolve the fixed-pixel marker hit radius.
	canvasW, canvasH int
}

// NewViewerSession creates a session over the core services.
func NewViewerSession(
	library driving.LibraryService,
	markers driving.MarkerService,
	annotations driving.AnnotationService,
	compositor driving.Compositor,
	settings driving.SettingsService,
) *ViewerSession {
	return &ViewerSession{
		library:     library,
		markers:     markers,
		annotations: annotations,
		compositor:  compositor,
		settings:    settings,
		scale:       1.0,
	}
}

// Open loads a document by composite key, loads its marker and
// annotation sets before first render, and restores the last position.
func (s *ViewerSession) Open(ctx context.Context, key string) error {
	doc, err := s.library.Get(ctx, key)
	if err != nil {
		return err
	}

	if _, err := s.markers.Load(ctx, doc.Name); err != nil {
		return err
	}
	if _, err := s.annotations.Load(ctx, doc.Name); err != nil {
		return err
	}

	view := 1
	if s.settings != nil {
		if saved := s.settings.LastView(key); saved > 0 {
			view = saved
		}
	}
	view = domain.ClampView(view, doc.PageCount)

	s.mu.Lock()
	s.doc = doc
	s.view = view
	s.generation++
	s.canvasW, s.canvasH = 0, 0
	if s.settings != nil {
		s.scale = s.settings.Zoom()
	}
	s.mu.Unlock()

	return nil
}

// Close persists the current position for the open document.
func (s *ViewerSession) Close(_ context.Context) error {
	s.mu.Lock()
	doc := s.doc
	view := s.view
	s.doc = nil
	s.generation++
	s.mu.Unlock()

	if doc == nil || s.settings == nil {
		return nil
	}
	return s.settings.SetLastView(doc.Key(), view)
}

// Document returns the open document, nil when none.
func (s *ViewerSession) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// View returns the current 1-based view index.
func (s *ViewerSession) View() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ViewCount returns the view count of the open document.
func (s *ViewerSession) ViewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return domain.ViewCount(s.doc.PageCount)
}

// GoTo jumps to a view, clamped to the valid range.
func (s *ViewerSession) GoTo(view int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(view)
}

// Next advances one view, clamped; returns the resulting view.
func (s *ViewerSession) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.view + 1)
	return s.view
}

// Prev goes back one view, clamped; returns the resulting view.
func (s *ViewerSession) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.view - 1)
	return s.view
}

// SetScale changes the render scale.
func (s *ViewerSession) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
	s.generation++
}

// Click dispatches a canvas click in fixed priority order and stops at
// the first consumer:
//
//  1. an active marker capture,
//  2. a pending annotation placement,
//  3. a marker origin within hit radius (jump to its target view),
//  4. plain navigation: right half forward, left half back.
func (s *ViewerSession) Click(ctx context.Context, x, y float64) (driving.ClickAction, error) {
	s.mu.Lock()
	doc := s.doc
	view := s.view
	canvasW, canvasH := s.canvasW, s.canvasH
	s.mu.Unlock()

	if doc == nil {
		return driving.ActionNone, domain.ErrInvalidInput
	}

	if state := s.markers.State(); state != driving.CaptureIdle {
		marker, err := s.markers.RecordClick(ctx, doc.Name, view, x, y)
		if err != nil {
			return driving.ActionNone, err
		}
		if marker != nil {
			return driving.ActionCapturedTarget, nil
		}
		return driving.ActionCapturedOrigin, nil
	}

	if s.annotations.PlacementPending() {
		if _, err := s.annotations.PlaceClick(ctx, doc.Name, view, x, y); err != nil {
			return driving.ActionNone, err
		}
		return driving.ActionPlacedAnnotation, nil
	}

	if hit := s.markers.HitTest(doc.Name, view, x, y, canvasW, canvasH); hit != nil {
		logger.Debug("marker %s hit on view %d, jumping to view %d", hit.ID, view, hit.TargetView)
		s.GoTo(hit.TargetView)
		return driving.ActionJumped, nil
	}

	var after int
	if x >= 0.5 {
		after = s.Next()
	} else {
		after = s.Prev()
	}
	if after == view {
		return driving.ActionNone, nil
	}
	return driving.ActionNavigated, nil
}

// Render composites the current view with its overlays. A result that
// finishes after the session moved on is discarded with
// domain.ErrStaleRender rather than painted over the new state.
func (s *ViewerSession) Render(ctx context.Context) (*image.RGBA, error) {
	s.mu.Lock()
	doc := s.doc
	view := s.view
	scale := s.scale
	generation := s.generation
	s.mu.Unlock()

	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	markers := s.markers.List(doc.Name)
	annotations := s.annotations.List(doc.Name)

	img, renderErr := s.compositor.Composite(ctx, doc, view, scale, markers, annotations)
	if img == nil {
		return nil, renderErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return nil, domain.ErrStaleRender
	}
	s.canvasW = img.Bounds().Dx()
	s.canvasH = img.Bounds().Dy()
	return img, renderErr
}

// goToLocked clamps and applies a view change. Caller holds s.mu.
func (s *ViewerSession) goToLocked(view int) {
	if s.doc == nil {
		return
	}
	clamped := domain.ClampView(view, s.doc.PageCount)
	if clamped == s.view {
		return
	}
	s.view = clamped
	s.generation++
}
