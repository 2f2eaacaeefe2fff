package services

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/sync/errgroup"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
	"github.com/scoreleaf/scoreleaf/internal/logger"
	"github.com/scoreleaf/scoreleaf/internal/render"
)

// Ensure Compositor implements the interface.
var _ driving.Compositor = (*Compositor)(nil)

// Compositor assembles one view's bitmap: the requested halves of up to
// two source pages stacked on a white destination surface, with marker
// and annotation overlays on top.
type Compositor struct {
	rasterizer driven.Rasterizer
}

// NewCompositor creates a compositor over a rasterizer.
func NewCompositor(rasterizer driven.Rasterizer) *Compositor {
	return &Compositor{rasterizer: rasterizer}
}

// pageRender is the rasterization result for one distinct source page.
type pageRender struct {
	page int
	img  image.Image
	err  error
}

// Composite renders the view per the pagination engine's configuration.
// Pages beyond the document's page count are skipped and their halves
// stay blank background; a view past the end never fails, it renders
// blank. A rasterization failure is recoverable: everything that
// did render is kept on the surface and the error wraps
// domain.ErrRenderFailed.
func (c *Compositor) Composite(
	ctx context.Context,
	doc *domain.Document,
	view int,
	scale float64,
	markers []domain.Marker,
	annotations []domain.Annotation,
) (*image.RGBA, error) {
	if doc == nil || scale <= 0 {
		return nil, domain.ErrInvalidInput
	}
	cfg, err := domain.ViewConfigurationFor(view)
	if err != nil {
		return nil, err
	}

	// Distinct pages only: a resting view needs one rasterization.
	pages := []int{}
	if cfg.TopPage <= doc.PageCount {
		pages = append(pages, cfg.TopPage)
	}
	if cfg.BottomPage <= doc.PageCount && cfg.BottomPage != cfg.TopPage {
		pages = append(pages, cfg.BottomPage)
	}

	// Rasterize concurrently; all renders complete before any pixels
	// are copied. Each page writes only its own slot.
	renders := make([]pageRender, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		i, page := i, page
		renders[i].page = page
		g.Go(func() error {
			renders[i].img, renders[i].err = c.rasterizer.RenderPage(gctx, doc, page, scale)
			return nil
		})
	}
	_ = g.Wait()

	byPage := make(map[int]image.Image, len(renders))
	var renderErr error
	for _, r := range renders {
		if r.err != nil {
			logger.Warn("rasterizing page %d of %s: %v", r.page, doc.Name, r.err)
			renderErr = fmt.Errorf("%w: page %d: %v", domain.ErrRenderFailed, r.page, r.err)
			continue
		}
		byPage[r.page] = r.img
	}

	dst := c.newSurface(byPage, cfg, scale)

	// Top half of the canvas takes the requested half of the top page,
	// bottom half the requested half of the bottom page. Source and
	// destination half heights are equal by construction since every
	// page renders at the same scale.
	if src, ok := byPage[cfg.TopPage]; ok {
		copyHalf(dst, src, cfg.TopHalf, true)
	}
	if src, ok := byPage[cfg.BottomPage]; ok {
		copyHalf(dst, src, cfg.BottomHalf, false)
	}

	render.DrawMarkers(dst, markers, view)
	render.DrawAnnotations(dst, annotations, view)

	return dst, renderErr
}

// newSurface allocates the white-backed destination surface sized to
// one full page at the current scale. Without any rendered page to
// measure, a default page size is assumed so blank views still have a
// canvas.
func (c *Compositor) newSurface(byPage map[int]image.Image, cfg domain.ViewConfiguration, scale float64) *image.RGBA {
	w, h := 0, 0
	for _, p := range []int{cfg.TopPage, cfg.BottomPage} {
		if img, ok := byPage[p]; ok {
			w, h = img.Bounds().Dx(), img.Bounds().Dy()
			break
		}
	}
	if w == 0 || h == 0 {
		// US Letter at 72dpi.
		w = int(612 * scale)
		h = int(792 * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

// copyHalf copies the requested half of src into the top or bottom half
// of dst at 1:1 scale.
func copyHalf(dst *image.RGBA, src image.Image, half domain.Half, top bool) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()
	halfH := h / 2

	dstRect := image.Rect(0, halfH, w, h)
	if top {
		dstRect = image.Rect(0, 0, w, halfH)
	}

	sp := src.Bounds().Min
	if half == domain.HalfBottom {
		sp = sp.Add(image.Pt(0, src.Bounds().Dy()/2))
	}

	draw.Draw(dst, dstRect, src, sp, draw.Src)
}
