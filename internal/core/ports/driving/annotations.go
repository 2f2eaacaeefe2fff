package driving

import (
	"context"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// AnnotationService owns the annotation collections per document and
// the pending-placement protocol. The full set is persisted on every
// mutation, keyed by the document's display name.
type AnnotationService interface {
	// Load fetches the persisted set for a document name into memory.
	// A missing set loads as empty.
	Load(ctx context.Context, fileName string) ([]domain.Annotation, error)

	// List returns the in-memory annotations for a document name.
	List(fileName string) []domain.Annotation

	// BeginPlacement records a pending symbol type. Text annotations
	// require a non-empty text payload; for every other type the text
	// is ignored. An unknown type fails with domain.ErrInvalidInput.
	BeginPlacement(typ domain.AnnotationType, text string) error

	// CancelPlacement clears pending state without creating anything.
	CancelPlacement()

	// PlacementPending reports whether a placement awaits a click.
	PlacementPending() bool

	// PlaceClick consumes the pending placement at the click's relative
	// coordinates on the given view. Without a pending placement it
	// fails with domain.ErrNoPendingPlacement.
	PlaceClick(ctx context.Context, fileName string, view int, x, y float64) (*domain.Annotation, error)

	// Delete removes an annotation by id and persists the shrunken set.
	Delete(ctx context.Context, fileName, id string) error
}
