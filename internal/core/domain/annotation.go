package domain

import "time"

// AnnotationType enumerates the symbols a user can place.
type AnnotationType string

const (
	// AnnotationOval is a filled note-head ellipse, width 1.5x height.
	AnnotationOval AnnotationType = "oval"

	// AnnotationWholeNote is a near-circular filled ellipse.
	AnnotationWholeNote AnnotationType = "whole-note"

	// AnnotationRepeatStart is a thick bar, thin bar and two dots.
	AnnotationRepeatStart AnnotationType = "repeat-start"

	// AnnotationRepeatEnd is the mirrored repeat sign.
	AnnotationRepeatEnd AnnotationType = "repeat-end"

	// AnnotationText is free text on a white backing rectangle.
	AnnotationText AnnotationType = "text"
)

// Valid reports whether t is one of the known annotation types.
func (t AnnotationType) Valid() bool {
	switch t {
	case AnnotationOval, AnnotationWholeNote, AnnotationRepeatStart,
		AnnotationRepeatEnd, AnnotationText:
		return true
	}
	return false
}

// Annotation is a user-placed symbol or text fixed at a view
// coordinate. Coordinates are relative fractions in [0,1], like
// marker coordinates. Immutable once placed; deleted by id.
type Annotation struct {
	// ID is a generated identifier.
	ID string

	// Type is the symbol kind.
	Type AnnotationType

	// X, Y is the placement point, relative to canvas size.
	X float64
	Y float64

	// Text is the payload; present iff Type is AnnotationText.
	Text string

	// Page is the 1-based view index the annotation is fixed to.
	Page int
}

// AnnotationSet is the full persisted annotation collection for one
// document, keyed by the document's display name.
type AnnotationSet struct {
	// ID is a generated identifier for the set record.
	ID string

	// FileName is the owning document's display name.
	FileName string

	// Annotations holds the annotations in creation order.
	Annotations []Annotation

	// LastModified is when the set was last saved.
	LastModified time.Time
}

// AnnotationSetKey builds the persistence key for a document's annotations.
func AnnotationSetKey(fileName string) string {
	return "annotations-" + fileName
}
