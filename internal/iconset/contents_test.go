package iconset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"iconforge/internal/config"
)

func TestWriteIOSManifest(t *testing.T) {
	root := t.TempDir()
	profile := config.DefaultProfile()

	path, err := WriteIOSManifest(root, profile.IOS)
	if err != nil {
		t.Fatalf("WriteIOSManifest() error = %v", err)
	}
	if want := filepath.Join(root, "ios", "AppIcon.appiconset", "Contents.json"); path != want {
		t.Fatalf("manifest path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var manifest struct {
		Images []struct {
			Size     string `json:"size"`
			Idiom    string `json:"idiom"`
			Filename string `json:"filename"`
			Scale    string `json:"scale"`
		} `json:"images"`
		Info struct {
			Version int    `json:"version"`
			Author  string `json:"author"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(manifest.Images) != 15 {
		t.Fatalf("manifest has %d images, want 15", len(manifest.Images))
	}
	if manifest.Info.Version != 1 {
		t.Fatalf("manifest version = %d, want 1", manifest.Info.Version)
	}

	foundMarketing := false
	for _, img := range manifest.Images {
		if img.Filename == "" || img.Size == "" || img.Scale == "" || img.Idiom == "" {
			t.Fatalf("incomplete manifest image entry: %+v", img)
		}
		if img.Idiom == "ios-marketing" {
			foundMarketing = true
			if img.Size != "1024x1024" || img.Scale != "1x" {
				t.Fatalf("marketing entry = %+v", img)
			}
		}
	}
	if !foundMarketing {
		t.Fatalf("manifest missing ios-marketing entry")
	}
}
