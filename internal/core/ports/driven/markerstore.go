package driven

import (
	"context"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// MarkerStore persists the full marker set per document display name.
// Saves replace the whole set; last write wins.
type MarkerStore interface {
	// LoadMarkers returns the marker set for a document name.
	// A document with no saved markers yields domain.ErrNotFound.
	LoadMarkers(ctx context.Context, fileName string) (*domain.MarkerSet, error)

	// SaveMarkers stores the full set under domain.MarkerSetKey(FileName).
	SaveMarkers(ctx context.Context, set *domain.MarkerSet) error

	// DeleteMarkers removes the whole set for a document name.
	DeleteMarkers(ctx context.Context, fileName string) error
}

// AnnotationStore persists the full annotation set per document display
// name, with the same replace-on-save contract as MarkerStore.
type AnnotationStore interface {
	// LoadAnnotations returns the annotation set for a document name.
	// A document with no saved annotations yields domain.ErrNotFound.
	LoadAnnotations(ctx context.Context, fileName string) (*domain.AnnotationSet, error)

	// SaveAnnotations stores the full set under domain.AnnotationSetKey(FileName).
	SaveAnnotations(ctx context.Context, set *domain.AnnotationSet) error

	// DeleteAnnotations removes the whole set for a document name.
	DeleteAnnotations(ctx context.Context, fileName string) error
}
