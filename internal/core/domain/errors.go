package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidView indicates a view index outside 1..ViewCount.
	ErrInvalidView = errors.New("invalid view index")

	// ErrRenderFailed indicates page rasterization failed.
	// Compositing continues with the halves that did render.
	ErrRenderFailed = errors.New("render failed")

	// ErrStaleRender indicates a composite finished after the viewer
	// moved on to another view or document. The result must be discarded.
	ErrStaleRender = errors.New("stale render discarded")

	// ErrStorageUnavailable indicates the persistence layer could not be
	// initialised. The application continues with in-memory stores.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoPendingPlacement indicates a placement click arrived without a
	// pending annotation type.
	ErrNoPendingPlacement = errors.New("no pending placement")
)
