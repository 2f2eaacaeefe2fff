package domain

import (
	"fmt"
	"time"
)

// Document represents an uploaded sheet-music PDF.
// Content is immutable once stored; replacing a document means deleting
// the old key and inserting a new one.
type Document struct {
	// ID is a generated identifier for the document record.
	ID string

	// Name is the display name (the uploaded file name).
	// Marker and annotation sets are keyed by this name.
	Name string

	// Size is the byte size of the content.
	Size int64

	// MediaType is the declared media type, normally "application/pdf".
	MediaType string

	// Data is the raw file content.
	Data []byte

	// LastModified is the file's modification timestamp in Unix
	// milliseconds, as reported at upload time.
	LastModified int64

	// AddedAt is the arrival timestamp; listings are ordered by it.
	AddedAt time.Time

	// FolderID is a weak back-reference to a Folder. Nil means the
	// document is not in any folder. It may be cleared at any time.
	FolderID *string

	// PageCount is the number of PDF pages, recorded at ingestion.
	PageCount int
}

// Key returns the composite natural key identifying this document.
// It is stable across sessions and deduplicates re-uploads of the same
// physical file.
func (d Document) Key() string {
	return DocumentKey(d.Name, d.Size, d.LastModified)
}

// DocumentKey builds the composite key "{name}-{size}-{lastModified}".
func DocumentKey(name string, size int64, lastModified int64) string {
	return fmt.Sprintf("%s-%d-%d", name, size, lastModified)
}

// Folder groups documents. A folder does not own its documents; they
// hold the weak back-reference.
type Folder struct {
	// ID is a generated identifier.
	ID string

	// Name is the display name.
	Name string

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time

	// Order is the sort position, dense from 0.
	Order int
}
