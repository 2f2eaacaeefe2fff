// Package pdfimage rasterizes scanned sheet-music PDFs by extracting
// the embedded page images with pdfcpu and scaling them onto a white
// surface. Scanned scores are full-page raster images wrapped in PDF
// structure, so image extraction recovers the page content without a
// full PDF renderer.
package pdfimage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	_ "image/jpeg" // register decoder for DCT-encoded page scans
	_ "image/png"  // register decoder for flate-encoded page scans

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder for CCITT fax scans

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure Rasterizer implements the interfaces.
var (
	_ driven.Rasterizer  = (*Rasterizer)(nil)
	_ driven.PageCounter = (*Rasterizer)(nil)
)

// basePageWidth is the unscaled render width in pixels. Heights follow
// the source image aspect ratio.
const basePageWidth = 1224

// Rasterizer renders PDF pages via embedded image extraction.
type Rasterizer struct {
	conf *model.Configuration
}

// NewRasterizer creates a rasterizer with relaxed validation, since
// scanner-produced PDFs are frequently out of spec.
func NewRasterizer() *Rasterizer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Rasterizer{conf: conf}
}

// RenderPage extracts the page's embedded image and scales it onto a
// white surface at the requested scale.
func (r *Rasterizer) RenderPage(ctx context.Context, doc *domain.Document, page int, scale float64) (image.Image, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: no document content", domain.ErrRenderFailed)
	}
	if page < 1 || (doc.PageCount > 0 && page > doc.PageCount) {
		return nil, fmt.Errorf("%w: page %d out of range", domain.ErrRenderFailed, page)
	}
	if scale <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := r.extractPageImage(doc.Data, page)
	if err != nil {
		return nil, err
	}

	w := int(float64(basePageWidth) * scale)
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("%w: empty page image", domain.ErrRenderFailed)
	}
	h := w * srcH / srcW

	// White underlay first: scans with transparency must not show
	// through as black.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	return dst, nil
}

// PageCount reports the page count of raw PDF content.
func (r *Rasterizer) PageCount(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := api.PageCount(bytes.NewReader(data), r.conf)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return count, nil
}

// extractPageImage returns the first decodable embedded image on the
// page. Scanned scores carry exactly one.
func (r *Rasterizer) extractPageImage(data []byte, page int) (image.Image, error) {
	pages := []string{strconv.Itoa(page)}
	extracted, err := api.ExtractImagesRaw(bytes.NewReader(data), pages, r.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: extracting page %d: %v", domain.ErrRenderFailed, page, err)
	}

	for _, pageImages := range extracted {
		for _, img := range pageImages {
			decoded, _, err := image.Decode(img)
			if err != nil {
				continue
			}
			return decoded, nil
		}
	}

	return nil, fmt.Errorf("%w: page %d has no raster content", domain.ErrRenderFailed, page)
}
