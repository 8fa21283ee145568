package iconset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"iconforge/internal/config"
)

type manifestImage struct {
	Size     string `json:"size"`
	Idiom    string `json:"idiom"`
	Filename string `json:"filename"`
	Scale    string `json:"scale"`
}

type manifestInfo struct {
	Version int    `json:"version"`
	Author  string `json:"author"`
}

type appIconManifest struct {
	Images []manifestImage `json:"images"`
	Info   manifestInfo    `json:"info"`
}

// WriteIOSManifest writes the Contents.json catalog manifest next to the
// generated appiconset PNGs so Xcode recognizes the set without manual
// asset-catalog edits.
func WriteIOSManifest(root string, profile config.IOSProfile) (string, error) {
	manifest := appIconManifest{
		Images: make([]manifestImage, 0, len(iosEntries)),
		Info:   manifestInfo{Version: 1, Author: "iconforge"},
	}
	for _, entry := range iosEntries {
		manifest.Images = append(manifest.Images, manifestImage{
			Size:     entry.Point,
			Idiom:    entry.Idiom,
			Filename: entry.File,
			Scale:    entry.Scale,
		})
	}

	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal appiconset manifest: %w", err)
	}

	outPath := filepath.Join(root, filepath.FromSlash(profile.Dir), "Contents.json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create appiconset directory: %w", err)
	}
	if err := os.WriteFile(outPath, append(payload, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write appiconset manifest: %w", err)
	}
	return outPath, nil
}
