package domain

// Half designates which half of a source page a view samples.
type Half string

const (
	// HalfTop is the top 50% of a page by height.
	HalfTop Half = "top"

	// HalfBottom is the bottom 50% of a page by height.
	HalfBottom Half = "bottom"
)

// ViewConfiguration describes the half-page composition of one view:
// which half of which source page fills the top and the bottom of the
// canvas. It is derived, never stored.
type ViewConfiguration struct {
	TopPage    int
	TopHalf    Half
	BottomPage int
	BottomHalf Half
}

// ViewCount returns the number of views for a document with pageCount
// pages: 0 for an empty document, otherwise 2*pageCount-1.
func ViewCount(pageCount int) int {
	if pageCount <= 0 {
		return 0
	}
	return 2*pageCount - 1
}

// ViewConfigurationFor maps a 1-based view index to its half-page
// composition. This is the single source of truth for the pagination
// scheme; rendering code must not re-derive page/half arithmetic.
//
// The produced sequence for pages A, B, C is:
//
//	view 1: A top + A bottom
//	view 2: B top + A bottom
//	view 3: B top + B bottom
//	view 4: C top + B bottom
//	view 5: C top + C bottom
//
// Even views transition forward by pairing the top half of the next
// page over the bottom half of the current page; odd views are resting
// views showing both halves of a single page.
//
// Pages referenced by the result may exceed the document's page count
// near the end of the document; the compositor renders only the halves
// that exist.
func ViewConfigurationFor(view int) (ViewConfiguration, error) {
	if view < 1 {
		return ViewConfiguration{}, ErrInvalidView
	}
	if view == 1 {
		return ViewConfiguration{
			TopPage:    1,
			TopHalf:    HalfTop,
			BottomPage: 1,
			BottomHalf: HalfBottom,
		}, nil
	}

	pageIndex := (view-2)/2 + 1
	if view%2 == 0 {
		return ViewConfiguration{
			TopPage:    pageIndex + 1,
			TopHalf:    HalfTop,
			BottomPage: pageIndex,
			BottomHalf: HalfBottom,
		}, nil
	}

	currentPage := pageIndex + 1
	return ViewConfiguration{
		TopPage:    currentPage,
		TopHalf:    HalfTop,
		BottomPage: currentPage,
		BottomHalf: HalfBottom,
	}, nil
}

// ClampView bounds a view index to the valid range for pageCount pages.
// For an empty document it returns 0.
func ClampView(view, pageCount int) int {
	count := ViewCount(pageCount)
	if count == 0 {
		return 0
	}
	if view < 1 {
		return 1
	}
	if view > count {
		return count
	}
	return view
}
