package app

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/logging"
	"iconforge/internal/runstatus"
)

func quietLogger() *logging.Logger {
	logger := logging.New(false)
	logger.SetTerminalOutputEnabled(false)
	return logger
}

func TestRun_AndroidSetFromEmblem(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{Out: out, Platforms: []string{"android"}}

	var results []TargetResult
	var statuses []string
	forge := New(opts, config.DefaultProfile(), icon.EmblemSource{}, quietLogger(), Callbacks{
		OnTargetDone: func(result TargetResult) {
			results = append(results, result)
		},
		OnStatusChange: func(status string) {
			statuses = append(statuses, status)
		},
	})
	if err := forge.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantSizes := map[string]int{
		"mipmap-mdpi":    48,
		"mipmap-hdpi":    72,
		"mipmap-xhdpi":   96,
		"mipmap-xxhdpi":  144,
		"mipmap-xxxhdpi": 192,
	}
	if len(results) != len(wantSizes) {
		t.Fatalf("got %d target results, want %d", len(results), len(wantSizes))
	}
	for dir, size := range wantSizes {
		path := filepath.Join(out, "android", "res", dir, "ic_launcher.png")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
		cfg, decodeErr := png.DecodeConfig(f)
		_ = f.Close()
		if decodeErr != nil {
			t.Fatalf("DecodeConfig(%s) error = %v", path, decodeErr)
		}
		if cfg.Width != size || cfg.Height != size {
			t.Fatalf("%s is %dx%d, want %dx%d", path, cfg.Width, cfg.Height, size, size)
		}
	}

	if len(statuses) == 0 || statuses[len(statuses)-1] != runstatus.Complete {
		t.Fatalf("statuses = %v, want final %q", statuses, runstatus.Complete)
	}
}

func TestRun_IOSSetIncludesManifest(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{Out: out, Platforms: []string{"ios"}}

	forge := New(opts, config.DefaultProfile(), icon.EmblemSource{}, quietLogger(), Callbacks{})
	if err := forge.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	setDir := filepath.Join(out, "ios", "AppIcon.appiconset")
	entries, err := os.ReadDir(setDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	// Fifteen PNGs plus Contents.json.
	if len(entries) != 16 {
		t.Fatalf("appiconset has %d entries, want 16", len(entries))
	}
	if _, err := os.Stat(filepath.Join(setDir, "Contents.json")); err != nil {
		t.Fatalf("missing Contents.json: %v", err)
	}
	if _, err := os.Stat(filepath.Join(setDir, "Icon-App-1024x1024@1x.png")); err != nil {
		t.Fatalf("missing marketing icon: %v", err)
	}
}

type failingSource struct {
	failAt int
	calls  int
}

func (s *failingSource) Describe() string { return "failing source" }

func (s *failingSource) Produce(size int) (image.Image, error) {
	s.calls++
	if s.calls > s.failAt {
		return nil, fmt.Errorf("render blew up at call %d", s.calls)
	}
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}

func TestRun_AbortsOnFirstRenderError(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{Out: out, Platforms: []string{"android"}}

	var results []TargetResult
	var statuses []string
	source := &failingSource{failAt: 2}
	forge := New(opts, config.DefaultProfile(), source, quietLogger(), Callbacks{
		OnTargetDone: func(result TargetResult) {
			results = append(results, result)
		},
		OnStatusChange: func(status string) {
			statuses = append(statuses, status)
		},
	})

	err := forge.Run()
	if err == nil {
		t.Fatalf("Run() expected error")
	}
	// Two successes, then the failing target; nothing after it.
	if len(results) != 3 {
		t.Fatalf("got %d target results, want 3", len(results))
	}
	if results[2].Err == nil {
		t.Fatalf("final result should carry the error")
	}
	if statuses[len(statuses)-1] != runstatus.Failed {
		t.Fatalf("statuses = %v, want final %q", statuses, runstatus.Failed)
	}
	if source.calls != 3 {
		t.Fatalf("source called %d times, want 3 (abort on first failure)", source.calls)
	}
}

func TestRunContext_CancellationStopsRun(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{Out: out, Platforms: []string{"android"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	forge := New(opts, config.DefaultProfile(), icon.EmblemSource{}, quietLogger(), Callbacks{})
	if err := forge.RunContext(ctx); err == nil {
		t.Fatalf("RunContext() with canceled context expected error")
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Fatalf("canceled run should not write outputs, found %d entries", len(entries))
	}
}

func TestRun_SharedSizesRenderOnce(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{Out: out, Platforms: []string{"ios"}}

	source := &countingSource{}
	forge := New(opts, config.DefaultProfile(), source, quietLogger(), Callbacks{})
	if err := forge.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 15 targets share two 120px entries and two 40px entries.
	if source.calls != 13 {
		t.Fatalf("source called %d times, want 13 distinct sizes", source.calls)
	}
}

type countingSource struct {
	calls int
}

func (s *countingSource) Describe() string { return "counting source" }

func (s *countingSource) Produce(size int) (image.Image, error) {
	s.calls++
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}
