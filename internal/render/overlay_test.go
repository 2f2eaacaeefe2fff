package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

func TestMarkerColor_CyclesPalette(t *testing.T) {
	first := MarkerColor(0)
	wrapped := MarkerColor(len(markerPalette))

	assert.Equal(t, first, wrapped)
	assert.NotEqual(t, MarkerColor(0), MarkerColor(1))
	assert.Equal(t, MarkerColor(2), MarkerColor(-2))
}

func TestDrawMarkers_OriginOnMatchingView(t *testing.T) {
	dst := whiteCanvas(200, 320)
	markers := []domain.Marker{
		{ID: "m1", View: 3, X: 0.5, Y: 0.5, TargetView: 5, TargetX: 0.9, TargetY: 0.9, ColorIndex: 0},
	}

	DrawMarkers(dst, markers, 3)

	// Origin dot centre carries the palette colour.
	assert.Equal(t, MarkerColor(0), dst.RGBAAt(100, 160))
	// The target point belongs to view 5, not this one.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(180, 288))
}

func TestDrawMarkers_TargetOnArrivalView(t *testing.T) {
	dst := whiteCanvas(200, 320)
	markers := []domain.Marker{
		{ID: "m1", View: 3, X: 0.5, Y: 0.5, TargetView: 5, TargetX: 0.25, TargetY: 0.25, ColorIndex: 1},
	}

	DrawMarkers(dst, markers, 5)

	// Target dot painted at the arrival view, same colour family.
	assert.Equal(t, MarkerColor(1), dst.RGBAAt(50, 80))
	// The origin belongs to view 3.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(100, 160))
}

func TestDrawMarkers_OtherViewUntouched(t *testing.T) {
	dst := whiteCanvas(200, 320)
	markers := []domain.Marker{
		{ID: "m1", View: 3, X: 0.5, Y: 0.5, TargetView: 5, TargetX: 0.25, TargetY: 0.25},
	}

	DrawMarkers(dst, markers, 4)

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(100, 160))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(50, 80))
}

func TestDrawAnnotations_OvalHasBlackStrokeAndWhiteFill(t *testing.T) {
	dst := whiteCanvas(400, 640)
	annotations := []domain.Annotation{
		{ID: "a1", Type: domain.AnnotationOval, X: 0.5, Y: 0.5, Page: 2},
	}

	DrawAnnotations(dst, annotations, 2)

	// Centre is white fill, the horizontal extreme is black stroke.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(200, 320))
	ref := referenceHeight(dst)
	edgeX := 200 + int(ref*1.5/2)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(edgeX, 320))
}

func TestDrawAnnotations_RepeatSignsPaintBars(t *testing.T) {
	for _, typ := range []domain.AnnotationType{domain.AnnotationRepeatStart, domain.AnnotationRepeatEnd} {
		dst := whiteCanvas(400, 640)
		annotations := []domain.Annotation{
			{ID: "a1", Type: typ, X: 0.5, Y: 0.5, Page: 1},
		}

		DrawAnnotations(dst, annotations, 1)

		// Something black lands near the anchor.
		found := false
		for x := 180; x < 240 && !found; x++ {
			for y := 300; y < 340 && !found; y++ {
				if dst.RGBAAt(x, y) == (color.RGBA{0, 0, 0, 255}) {
					found = true
				}
			}
		}
		assert.True(t, found, "no ink painted for %s", typ)
	}
}

func TestDrawAnnotations_TextPaintsBackingRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 640))
	annotations := []domain.Annotation{
		{ID: "a1", Type: domain.AnnotationText, X: 0.5, Y: 0.5, Text: "Coda", Page: 1},
	}

	DrawAnnotations(dst, annotations, 1)

	// The white backing rectangle covers the centre of a zeroed canvas.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(200, 320))
}

func TestDrawAnnotations_EmptyTextPaintsNothing(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 160))
	annotations := []domain.Annotation{
		{ID: "a1", Type: domain.AnnotationText, X: 0.5, Y: 0.5, Text: "", Page: 1},
	}

	DrawAnnotations(dst, annotations, 1)

	assert.Equal(t, color.RGBA{}, dst.RGBAAt(50, 80))
}

func TestDrawAnnotations_WrongViewUntouched(t *testing.T) {
	dst := whiteCanvas(100, 160)
	annotations := []domain.Annotation{
		{ID: "a1", Type: domain.AnnotationOval, X: 0.5, Y: 0.5, Page: 2},
	}

	DrawAnnotations(dst, annotations, 1)

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(50, 80))
}

func TestFillEllipse_ClipsToBounds(t *testing.T) {
	dst := whiteCanvas(50, 50)

	// Centre outside the canvas; must not panic and must paint the
	// overlapping part only.
	fillEllipse(dst, 49, 49, 10, 10, color.RGBA{255, 0, 0, 255})

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(49, 49))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(0, 0))
}

func TestReferenceHeight_Floor(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Equal(t, 4.0, referenceHeight(small))

	large := image.NewRGBA(image.Rect(0, 0, 1224, 1584))
	assert.Equal(t, 1584.0/12.0/6.0, referenceHeight(large))
}
