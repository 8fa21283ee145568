package icon

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

var (
	emblemAccent = color.NRGBA{R: 255, G: 102, B: 0, A: 255}
	emblemGlyph  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// RenderEmblem draws the fallback launcher emblem: an orange disc inset by
// a tenth of the canvas on each side, with a white "H" glyph centered on it.
// Glyph proportions are fixed relative to size: width size/3, height size/2,
// stroke size/12.
func RenderEmblem(size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render emblem: %w (got %d)", ErrInvalidSize, size)
	}

	dc := gg.NewContext(size, size)

	margin := size / 10
	radius := float64(size-2*margin) / 2
	center := float64(margin) + radius
	dc.SetColor(emblemAccent)
	dc.DrawCircle(center, center, radius)
	dc.Fill()

	glyphW := size / 3
	glyphH := size / 2
	stroke := size / 12
	glyphX := (size - glyphW) / 2
	glyphY := (size - glyphH) / 2

	dc.SetColor(emblemGlyph)
	dc.DrawRectangle(float64(glyphX), float64(glyphY), float64(stroke), float64(glyphH))
	dc.DrawRectangle(float64(glyphX+glyphW-stroke), float64(glyphY), float64(stroke), float64(glyphH))
	barY := glyphY + glyphH/2 - stroke/2
	dc.DrawRectangle(float64(glyphX), float64(barY), float64(glyphW), float64(stroke))
	dc.Fill()

	return dc.Image(), nil
}
