package memory

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
)

// Ensure Rasterizer implements the interfaces.
var (
	_ driven.Rasterizer  = (*Rasterizer)(nil)
	_ driven.PageCounter = (*Rasterizer)(nil)
)

// Rasterizer is an in-memory implementation of driven.Rasterizer for
// testing. Each page renders as a flat-colored surface whose top and
// bottom halves are distinguishable, so half-page composition can be
// verified pixel by pixel.
type Rasterizer struct {
	mu sync.Mutex

	// PageW/PageH is the unscaled page size in pixels.
	PageW, PageH int

	// FailPages marks page numbers whose render fails.
	FailPages map[int]bool

	// Pages overrides the page count reported by PageCount; zero means
	// use the document's recorded count.
	Pages int

	// renders counts RenderPage calls per page number.
	renders map[int]int
}

// NewRasterizer creates a fake rasterizer with a 100x160 page.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		PageW:     100,
		PageH:     160,
		FailPages: make(map[int]bool),
		renders:   make(map[int]int),
	}
}

// HalfColor returns the flat color the fake paints on the given half of
// the given page.
func HalfColor(page int, half domain.Half) color.RGBA {
	c := color.RGBA{R: uint8(page * 20), G: uint8(page * 10), B: 50, A: 255}
	if half == domain.HalfBottom {
		c.B = 200
	}
	return c
}

// RenderPage renders a synthetic page, or fails when the page is marked
// failing or out of range.
func (r *Rasterizer) RenderPage(_ context.Context, doc *domain.Document, page int, scale float64) (image.Image, error) {
	r.mu.Lock()
	r.renders[page]++
	fail := r.FailPages[page]
	r.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("render failure injected for page %d", page)
	}
	if doc != nil && doc.PageCount > 0 && (page < 1 || page > doc.PageCount) {
		return nil, fmt.Errorf("page %d out of range", page)
	}

	w := int(float64(r.PageW) * scale)
	h := int(float64(r.PageH) * scale)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	topRect := image.Rect(0, 0, w, h/2)
	bottomRect := image.Rect(0, h/2, w, h)
	draw.Draw(img, topRect, image.NewUniform(HalfColor(page, domain.HalfTop)), image.Point{}, draw.Src)
	draw.Draw(img, bottomRect, image.NewUniform(HalfColor(page, domain.HalfBottom)), image.Point{}, draw.Src)
	return img, nil
}

// PageCount reports the configured page count.
func (r *Rasterizer) PageCount(_ context.Context, _ []byte) (int, error) {
	if r.Pages > 0 {
		return r.Pages, nil
	}
	return 0, fmt.Errorf("no page count configured")
}

// Renders returns how many times the given page was rasterized.
func (r *Rasterizer) Renders(page int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders[page]
}
