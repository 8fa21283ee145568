package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// Source produces the square icon content for a requested pixel size.
// Implementations are the resize-from-logo path, the SVG rasterizer path,
// and the procedurally drawn emblem.
type Source interface {
	Describe() string
	Produce(size int) (image.Image, error)
}

// OpenSource builds the Source matching the given logo path: SVG files go
// through the vector rasterizer, everything else through the raster decoder.
// An empty path yields the drawn emblem.
func OpenSource(path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return EmblemSource{}, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return NewSVGSource(path)
	}
	return NewLogoSource(path)
}

type LogoSource struct {
	path string
	img  image.Image
}

// NewLogoSource decodes the logo once; per-size renders reuse the decoded
// pixels.
func NewLogoSource(path string) (*LogoSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("logo %s: %w", path, ErrInvalidSource)
	}
	return &LogoSource{path: path, img: img}, nil
}

func (s *LogoSource) Describe() string {
	return fmt.Sprintf("logo %s (%dx%d)", filepath.Base(s.path), s.img.Bounds().Dx(), s.img.Bounds().Dy())
}

func (s *LogoSource) Produce(size int) (image.Image, error) {
	return RenderIcon(s.img, size)
}

type SVGSource struct {
	path string
	data []byte
	// native viewbox dimensions, used for the aspect fit
	viewW float64
	viewH float64
}

// NewSVGSource parses once to validate and capture the viewbox; Produce
// re-parses per render because SetTarget mutates the icon.
func NewSVGSource(path string) (*SVGSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}
	parsed, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", path, err)
	}
	w, h := parsed.ViewBox.W, parsed.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg %s: %w", path, ErrInvalidSource)
	}
	return &SVGSource{path: path, data: data, viewW: w, viewH: h}, nil
}

func (s *SVGSource) Describe() string {
	return fmt.Sprintf("svg %s (%.0fx%.0f)", filepath.Base(s.path), s.viewW, s.viewH)
}

func (s *SVGSource) Produce(size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("rasterize svg: %w (got %d)", ErrInvalidSize, size)
	}
	parsed, err := oksvg.ReadIconStream(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", s.path, err)
	}

	newW, newH := fitDimensions(int(s.viewW), int(s.viewH), size)
	parsed.SetTarget(0, 0, float64(newW), float64(newH))
	content := image.NewRGBA(image.Rect(0, 0, newW, newH))
	scanner := rasterx.NewScannerGV(newW, newH, content, content.Bounds())
	raster := rasterx.NewDasher(newW, newH, scanner)
	parsed.Draw(raster, 1.0)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	offsetX := (size - newW) / 2
	offsetY := (size - newH) / 2
	target := image.Rect(offsetX, offsetY, offsetX+newW, offsetY+newH)
	xdraw.Draw(canvas, target, content, content.Bounds().Min, xdraw.Over)
	return canvas, nil
}

type EmblemSource struct{}

func (EmblemSource) Describe() string {
	return "drawn emblem"
}

func (EmblemSource) Produce(size int) (image.Image, error) {
	return RenderEmblem(size)
}

// EncodePNG serializes a rendered canvas for output.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
