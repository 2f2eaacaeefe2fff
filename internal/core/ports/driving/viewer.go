package driving

import (
	"context"
	"image"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// ClickAction reports how a canvas click was consumed.
type ClickAction string

const (
	// ActionCapturedOrigin: the click recorded a marker origin.
	ActionCapturedOrigin ClickAction = "captured-origin"

	// ActionCapturedTarget: the click completed a marker.
	ActionCapturedTarget ClickAction = "captured-target"

	// ActionPlacedAnnotation: the click placed a pending annotation.
	ActionPlacedAnnotation ClickAction = "placed-annotation"

	// ActionJumped: the click hit a marker origin and the session
	// jumped to its target view.
	ActionJumped ClickAction = "jumped"

	// ActionNavigated: plain navigation forward or backward.
	ActionNavigated ClickAction = "navigated"

	// ActionNone: nothing happened (e.g. navigation clamped at an edge).
	ActionNone ClickAction = "none"
)

// Compositor assembles a view's bitmap from source pages and overlays.
type Compositor interface {
	// Composite renders the two half-pages of the given view at scale,
	// then draws the supplied markers and annotations belonging to that
	// view on top. A page rasterization failure returns the partial
	// surface together with an error wrapping domain.ErrRenderFailed.
	Composite(
		ctx context.Context,
		doc *domain.Document,
		view int,
		scale float64,
		markers []domain.Marker,
		annotations []domain.Annotation,
	) (*image.RGBA, error)
}

// ViewerSession is the per-document state the viewer shell drives:
// current view, zoom scale, click dispatch and rendering.
type ViewerSession interface {
	// Open loads a document by composite key, loads its marker and
	// annotation sets, and restores the last viewed position.
	Open(ctx context.Context, key string) error

	// Close persists the current position for the open document.
	Close(ctx context.Context) error

	// Document returns the open document, nil when none.
	Document() *domain.Document

	// View returns the current 1-based view index.
	View() int

	// ViewCount returns the view count of the open document.
	ViewCount() int

	// GoTo jumps to a view, clamped to the valid range.
	GoTo(view int)

	// Next advances one view, clamped; returns the resulting view.
	Next() int

	// Prev goes back one view, clamped; returns the resulting view.
	Prev() int

	// SetScale changes the render scale.
	SetScale(scale float64)

	// Click dispatches a canvas click at relative coordinates in [0,1],
	// in fixed priority order: marker capture, pending annotation
	// placement, marker origin hit, plain navigation (right half
	// forward, left half back).
	Click(ctx context.Context, x, y float64) (ClickAction, error)

	// Render composites the current view. A result that finishes after
	// the session moved to another view or document is discarded with
	// domain.ErrStaleRender.
	Render(ctx context.Context) (*image.RGBA, error)
}
