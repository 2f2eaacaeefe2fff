// Package render draws marker and annotation overlays onto a composited
// view surface. All overlay positions arrive as relative coordinates in
// [0,1] and are scaled to the destination surface here, so stored
// coordinates stay valid across zoom changes.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// markerPalette cycles by a marker's colour index so related origin and
// target points share a colour.
var markerPalette = []color.RGBA{
	{220, 38, 38, 255},  // red
	{37, 99, 235, 255},  // blue
	{22, 163, 74, 255},  // green
	{217, 119, 6, 255},  // amber
	{147, 51, 234, 255}, // purple
	{8, 145, 178, 255},  // cyan
	{190, 24, 93, 255},  // pink
	{101, 163, 13, 255}, // lime
}

// MarkerColor returns the palette colour for a marker colour index.
func MarkerColor(colorIndex int) color.RGBA {
	if colorIndex < 0 {
		colorIndex = -colorIndex
	}
	return markerPalette[colorIndex%len(markerPalette)]
}

// referenceHeight is the base glyph height for annotation symbols:
// one marker line height (1/12 of the canvas) divided by 6.
func referenceHeight(dst *image.RGBA) float64 {
	h := float64(dst.Bounds().Dy()) / 12.0 / 6.0
	if h < 4 {
		h = 4
	}
	return h
}

// DrawMarkers paints the origin points of markers on the given view and
// the target points of markers arriving at it. Only origin points are
// interactive; targets are painted for orientation.
func DrawMarkers(dst *image.RGBA, markers []domain.Marker, view int) {
	b := dst.Bounds()
	r := referenceHeight(dst) * 0.75

	for _, m := range markers {
		col := MarkerColor(m.ColorIndex)
		if m.View == view {
			cx := float64(b.Min.X) + m.X*float64(b.Dx())
			cy := float64(b.Min.Y) + m.Y*float64(b.Dy())
			fillEllipse(dst, cx, cy, r+1, r+1, black)
			fillEllipse(dst, cx, cy, r, r, col)
		}
		if m.TargetView == view {
			cx := float64(b.Min.X) + m.TargetX*float64(b.Dx())
			cy := float64(b.Min.Y) + m.TargetY*float64(b.Dy())
			fillEllipse(dst, cx, cy, r*0.6, r*0.6, col)
		}
	}
}

// DrawAnnotations paints the annotations fixed to the given view,
// each centred at its relative coordinate.
func DrawAnnotations(dst *image.RGBA, annotations []domain.Annotation, view int) {
	b := dst.Bounds()

	for _, a := range annotations {
		if a.Page != view {
			continue
		}
		cx := float64(b.Min.X) + a.X*float64(b.Dx())
		cy := float64(b.Min.Y) + a.Y*float64(b.Dy())
		drawSymbol(dst, a, cx, cy)
	}
}

func drawSymbol(dst *image.RGBA, a domain.Annotation, cx, cy float64) {
	ref := referenceHeight(dst)

	switch a.Type {
	case domain.AnnotationOval:
		// Note head: width 1.5x height, white fill, black stroke.
		strokedEllipse(dst, cx, cy, ref*1.5/2, ref/2)
	case domain.AnnotationWholeNote:
		// Near-circular, slight horizontal elongation.
		strokedEllipse(dst, cx, cy, ref*1.15/2, ref/2)
	case domain.AnnotationRepeatStart:
		drawRepeat(dst, cx, cy, ref, false)
	case domain.AnnotationRepeatEnd:
		drawRepeat(dst, cx, cy, ref, true)
	case domain.AnnotationText:
		drawText(dst, a.Text, cx, cy)
	}
}

// drawRepeat paints a repeat sign of height 1.5x the reference: a thick
// and a thin vertical bar plus two dots. mirrored=true flips the order
// for a repeat end.
func drawRepeat(dst *image.RGBA, cx, cy, ref float64, mirrored bool) {
	barH := ref * 1.5
	thick := max(2, ref/3)
	thin := max(1, ref/8)
	gap := max(2, ref/4)
	dotR := max(1.5, ref/5)

	top := cy - barH/2
	bot := cy + barH/2

	if !mirrored {
		x := cx
		fillRect(dst, x, top, x+thick, bot, black)
		x += thick + gap
		fillRect(dst, x, top, x+thin, bot, black)
		x += thin + gap + dotR
		fillEllipse(dst, x, cy-barH/4, dotR, dotR, black)
		fillEllipse(dst, x, cy+barH/4, dotR, dotR, black)
	} else {
		x := cx
		fillEllipse(dst, x, cy-barH/4, dotR, dotR, black)
		fillEllipse(dst, x, cy+barH/4, dotR, dotR, black)
		x += dotR + gap
		fillRect(dst, x, top, x+thin, bot, black)
		x += thin + gap
		fillRect(dst, x, top, x+thick, bot, black)
	}
}

// drawText paints the text centred at (cx, cy) on a white backing
// rectangle sized to the text metrics.
func drawText(dst *image.RGBA, text string, cx, cy float64) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	height := face.Metrics().Height.Ceil()

	pad := 2.0
	left := cx - float64(width)/2
	top := cy - float64(height)/2
	fillRect(dst, left-pad, top-pad, left+float64(width)+pad, top+float64(height)+pad, white)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(black),
		Face: face,
		Dot:  fixed.P(int(left), int(top)+ascent),
	}
	d.DrawString(text)
}

// fillEllipse paints a filled ellipse centred at (cx, cy) with the
// given radii, clipped to the destination bounds.
func fillEllipse(dst *image.RGBA, cx, cy, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	b := dst.Bounds()
	minY := int(cy - ry)
	maxY := int(cy + ry)
	for y := minY; y <= maxY; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		dy := (float64(y) - cy) / ry
		span := 1 - dy*dy
		if span < 0 {
			continue
		}
		halfW := rx * math.Sqrt(span)
		for x := int(cx - halfW); x <= int(cx+halfW); x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dst.SetRGBA(x, y, col)
		}
	}
}

// strokedEllipse paints a black ellipse with a white interior.
func strokedEllipse(dst *image.RGBA, cx, cy, rx, ry float64) {
	stroke := max(1, ry/4)
	fillEllipse(dst, cx, cy, rx, ry, black)
	fillEllipse(dst, cx, cy, rx-stroke, ry-stroke, white)
}

// fillRect paints an axis-aligned rectangle given float edges.
func fillRect(dst *image.RGBA, x0, y0, x1, y1 float64, col color.RGBA) {
	r := image.Rect(int(x0), int(y0), int(x1+0.5), int(y1+0.5)).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}
