package iconset

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/jackmordaunt/icns/v3"

	"iconforge/internal/icon"
)

// WriteTarget serializes a rendered canvas to the target's output path,
// creating parent directories as needed. Existing files are overwritten.
// Returns the absolute path written.
func WriteTarget(root string, target Target, img image.Image) (string, error) {
	outPath := filepath.Join(root, filepath.FromSlash(target.RelPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory for %s: %w", target.Name, err)
	}

	payload, err := encodeTarget(target, img)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target.Name, err)
	}
	return outPath, nil
}

func encodeTarget(target Target, img image.Image) ([]byte, error) {
	switch target.Format {
	case FormatPNG:
		return icon.EncodePNG(img)
	case FormatICO:
		return EncodeICO(img)
	case FormatICNS:
		return encodeICNS(img)
	default:
		return nil, fmt.Errorf("unknown target format for %s", target.Name)
	}
}

func encodeICNS(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := icns.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode icns: %w", err)
	}
	return buf.Bytes(), nil
}
