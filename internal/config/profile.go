package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Profile describes where each platform's icon set lands below the output
// root and which pixel sizes get rendered. The zero value is unusable; start
// from DefaultProfile and overlay a TOML file on top.
type Profile struct {
	Android AndroidProfile `toml:"android"`
	IOS     IOSProfile     `toml:"ios"`
	Windows WindowsProfile `toml:"windows"`
	MacOS   MacOSProfile   `toml:"macos"`
}

type AndroidProfile struct {
	Dir       string         `toml:"dir"`
	File      string         `toml:"file"`
	Densities map[string]int `toml:"densities"`
}

type IOSProfile struct {
	Dir string `toml:"dir"`
}

type WindowsProfile struct {
	Dir  string `toml:"dir"`
	Size int    `toml:"size"`
}

type MacOSProfile struct {
	Dir  string `toml:"dir"`
	Size int    `toml:"size"`
}

// DefaultProfile carries the stock launcher layout: the five Android mipmap
// densities and the standard AppIcon.appiconset, plus single-file desktop
// outputs.
func DefaultProfile() Profile {
	return Profile{
		Android: AndroidProfile{
			Dir:  "android/res",
			File: "ic_launcher.png",
			Densities: map[string]int{
				"mdpi":    48,
				"hdpi":    72,
				"xhdpi":   96,
				"xxhdpi":  144,
				"xxxhdpi": 192,
			},
		},
		IOS:     IOSProfile{Dir: "ios/AppIcon.appiconset"},
		Windows: WindowsProfile{Dir: "windows", Size: 256},
		MacOS:   MacOSProfile{Dir: "macos", Size: 1024},
	}
}

// LoadProfile overlays the TOML file at path onto the defaults. An empty
// path returns the defaults untouched. A density table in the file replaces
// the default table wholesale rather than merging into it.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if strings.TrimSpace(path) == "" {
		return profile, nil
	}
	var overlay Profile
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return Profile{}, fmt.Errorf("load profile %s: %w", path, err)
	}
	mergeProfile(&profile, overlay)
	if err := validateProfile(profile); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

func mergeProfile(base *Profile, overlay Profile) {
	if strings.TrimSpace(overlay.Android.Dir) != "" {
		base.Android.Dir = overlay.Android.Dir
	}
	if strings.TrimSpace(overlay.Android.File) != "" {
		base.Android.File = overlay.Android.File
	}
	if len(overlay.Android.Densities) > 0 {
		base.Android.Densities = overlay.Android.Densities
	}
	if strings.TrimSpace(overlay.IOS.Dir) != "" {
		base.IOS.Dir = overlay.IOS.Dir
	}
	if strings.TrimSpace(overlay.Windows.Dir) != "" {
		base.Windows.Dir = overlay.Windows.Dir
	}
	if overlay.Windows.Size != 0 {
		base.Windows.Size = overlay.Windows.Size
	}
	if strings.TrimSpace(overlay.MacOS.Dir) != "" {
		base.MacOS.Dir = overlay.MacOS.Dir
	}
	if overlay.MacOS.Size != 0 {
		base.MacOS.Size = overlay.MacOS.Size
	}
}

func validateProfile(profile Profile) error {
	if len(profile.Android.Densities) == 0 {
		return fmt.Errorf("android density table must not be empty")
	}
	for name, size := range profile.Android.Densities {
		if size <= 0 {
			return fmt.Errorf("android density %q has non-positive size %d", name, size)
		}
	}
	if strings.TrimSpace(profile.Android.File) == "" {
		return fmt.Errorf("android launcher filename must not be empty")
	}
	if profile.Windows.Size <= 0 || profile.Windows.Size > 256 {
		return fmt.Errorf("windows icon size must be 1..256, got %d", profile.Windows.Size)
	}
	if profile.MacOS.Size <= 0 {
		return fmt.Errorf("macos icon size must be positive, got %d", profile.MacOS.Size)
	}
	return nil
}
