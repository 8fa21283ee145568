package config

import (
	"errors"
	"fmt"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type Options struct {
	Source     string   `long:"source" env:"ICONFORGE_SOURCE" description:"Source logo image (PNG or SVG); omit to draw the built-in emblem"`
	Emblem     bool     `long:"emblem" env:"ICONFORGE_EMBLEM" description:"Draw the built-in emblem even when a source logo is configured"`
	Out        string   `long:"out" env:"ICONFORGE_OUT" description:"Output root directory for the generated icon sets"`
	Platforms  []string `long:"platform" env:"ICONFORGE_PLATFORMS" env-delim:"," description:"Platform set to generate: android, ios, windows, macos, or all (repeatable)"`
	Profile    string   `long:"profile" env:"ICONFORGE_PROFILE" description:"TOML profile overriding size tables and output layout"`
	Watch      bool     `long:"watch" env:"ICONFORGE_WATCH" description:"Keep running and regenerate when the source logo changes"`
	NoUI       bool     `long:"no-ui" env:"ICONFORGE_NO_UI" description:"Disable the terminal progress UI, log plain lines instead"`
	Debug      bool     `long:"debug" env:"ICONFORGE_DEBUG" description:"Enable verbose debug output"`
	LogFileMax int64    `long:"log-file-max" env:"ICONFORGE_LOG_FILE_MAX" description:"Max bytes per session log file before rotation"`
}

const DefaultOutDir = "dist"

// defaultPlatforms mirrors the two icon sets the tool has always produced;
// windows and macos outputs are opt-in.
var defaultPlatforms = []string{"android", "ios"}

var knownPlatforms = map[string]bool{
	"android": true,
	"ios":     true,
	"windows": true,
	"macos":   true,
}

func ParseOptions() (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	if _, err := flags.Parse(&opts); err != nil {
		return Options{}, err
	}
	if strings.TrimSpace(opts.Out) == "" {
		opts.Out = DefaultOutDir
	}
	return opts, nil
}

func ValidateRequired(opts Options) error {
	if strings.TrimSpace(opts.Out) == "" {
		return errors.New("output directory is required")
	}
	if opts.Watch && strings.TrimSpace(opts.Source) == "" {
		return errors.New("watch mode requires a source logo")
	}
	if opts.Watch && opts.Emblem {
		return errors.New("watch mode cannot be combined with the drawn emblem")
	}
	if _, err := NormalizePlatforms(opts.Platforms); err != nil {
		return err
	}
	return nil
}

// NormalizePlatforms lowercases, deduplicates, and expands "all"; an empty
// request falls back to the android+ios default.
func NormalizePlatforms(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), defaultPlatforms...), nil
	}
	seen := map[string]bool{}
	var normalized []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			normalized = append(normalized, name)
		}
	}
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			add("android")
			add("ios")
			add("windows")
			add("macos")
			continue
		}
		if !knownPlatforms[name] {
			return nil, fmt.Errorf("unknown platform %q (expected android, ios, windows, macos, or all)", raw)
		}
		add(name)
	}
	if len(normalized) == 0 {
		return append([]string(nil), defaultPlatforms...), nil
	}
	return normalized, nil
}
