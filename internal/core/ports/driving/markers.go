package driving

import (
	"context"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// CaptureState is the marker capture protocol state.
type CaptureState int

const (
	// CaptureIdle means no capture is in progress.
	CaptureIdle CaptureState = iota

	// CaptureAwaitingOrigin means the next click records the origin.
	CaptureAwaitingOrigin

	// CaptureAwaitingTarget means the next click records the target
	// and completes the marker.
	CaptureAwaitingTarget
)

// MarkerService owns the marker collections per document and the
// two-click capture protocol. The full set is persisted on every
// mutation, keyed by the document's display name.
type MarkerService interface {
	// Load fetches the persisted set for a document name into memory.
	// Called before first render of a document. A missing set is not an
	// error; it loads as empty.
	Load(ctx context.Context, fileName string) ([]domain.Marker, error)

	// List returns the in-memory markers for a document name.
	List(fileName string) []domain.Marker

	// StartCapture transitions Idle -> AwaitingOrigin.
	StartCapture()

	// CancelCapture discards pending state from either capture state.
	CancelCapture()

	// State returns the current capture state.
	State() CaptureState

	// RecordClick feeds a canvas click to the capture protocol.
	// In AwaitingOrigin it records the pending origin and returns nil.
	// In AwaitingTarget it completes and persists the marker.
	// In Idle it fails with domain.ErrInvalidInput.
	RecordClick(ctx context.Context, fileName string, view int, x, y float64) (*domain.Marker, error)

	// HitTest returns the marker whose origin point on the given view
	// lies within the fixed pixel radius of the click, given the
	// current canvas pixel size. Only origin points are clickable;
	// target points deliberately are not.
	HitTest(fileName string, view int, x, y float64, canvasW, canvasH int) *domain.Marker

	// Delete removes a marker by id and persists the shrunken set.
	Delete(ctx context.Context, fileName, id string) error
}
