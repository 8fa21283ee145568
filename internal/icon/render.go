package icon

import (
	"errors"
	"fmt"
	"image"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

var (
	ErrInvalidSource = errors.New("source image has zero width or height")
	ErrInvalidSize   = errors.New("target size must be positive")
)

// Content is scaled to fill at most this fraction of the output square,
// leaving a uniform safe margin around the launcher artwork.
const contentFraction = 0.8

// RenderIcon scales src to fit within an 80% content box of a
// targetSize x targetSize transparent canvas and composites it centered,
// using the source's own alpha channel.
func RenderIcon(src image.Image, targetSize int) (*image.RGBA, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("render icon: %w (got %d)", ErrInvalidSize, targetSize)
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("render icon: %w (got %dx%d)", ErrInvalidSource, bounds.Dx(), bounds.Dy())
	}

	newW, newH := fitDimensions(bounds.Dx(), bounds.Dy(), targetSize)
	scaled := resize.Resize(uint(newW), uint(newH), src, resize.Lanczos3)

	canvas := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	offsetX := (targetSize - newW) / 2
	offsetY := (targetSize - newH) / 2
	target := image.Rect(offsetX, offsetY, offsetX+newW, offsetY+newH)
	xdraw.Draw(canvas, target, scaled, scaled.Bounds().Min, xdraw.Over)

	return canvas, nil
}

// fitDimensions picks the scaled content dimensions for a square of the
// given side, preserving aspect ratio and capping the longer content axis
// at the content fraction.
func fitDimensions(srcW int, srcH int, targetSize int) (int, int) {
	aspect := float64(srcW) / float64(srcH)
	var newW, newH int
	if aspect > 1 {
		newW = int(float64(targetSize) * contentFraction)
		newH = int(float64(newW) / aspect)
	} else {
		newH = int(float64(targetSize) * contentFraction)
		newW = int(float64(newH) * aspect)
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}
