package domain

import "time"

// Marker is a user-defined jump link from one view+point to another.
// Coordinates are fractions of the rendered canvas in [0,1], never
// pixels, so they stay valid across zoom changes. A marker carries the
// numeric view indices directly; views are ephemeral derived concepts
// and do not own markers.
//
// Markers are immutable once created. Editing means delete + recreate.
type Marker struct {
	// ID is a generated identifier.
	ID string

	// View is the 1-based origin view index.
	View int

	// X, Y is the origin point, relative to canvas size.
	X float64
	Y float64

	// TargetView is the 1-based view jumped to on activation.
	TargetView int

	// TargetX, TargetY is the target point, relative to canvas size.
	TargetX float64
	TargetY float64

	// ColorIndex groups markers visually. Assigned at creation as the
	// marker count at that moment; never reassigned on deletion.
	ColorIndex int
}

// MarkerSet is the full persisted marker collection for one document,
// keyed by the document's display name.
type MarkerSet struct {
	// ID is a generated identifier for the set record.
	ID string

	// FileName is the owning document's display name.
	FileName string

	// Markers holds the markers in creation order.
	Markers []Marker

	// LastModified is when the set was last saved.
	LastModified time.Time
}

// MarkerSetKey builds the persistence key for a document's markers.
func MarkerSetKey(fileName string) string {
	return "markers-" + fileName
}
