package driven

import (
	"context"
	"image"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

// Rasterizer renders one PDF page to a pixel surface. Rasterization is
// an external capability; the core only consumes it through this port.
type Rasterizer interface {
	// RenderPage rasterizes the 1-based page of doc at the given scale
	// onto a solid white background. Transparency must not leak through
	// as black. Page numbers beyond doc.PageCount yield an error.
	RenderPage(ctx context.Context, doc *domain.Document, page int, scale float64) (image.Image, error)
}

// PageCounter reports the page count of raw PDF content. Used by the
// library at ingestion time.
type PageCounter interface {
	// PageCount returns the number of pages in data.
	PageCount(ctx context.Context, data []byte) (int, error)
}
