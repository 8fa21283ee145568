package iconset

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"iconforge/internal/config"
)

type Format int

const (
	FormatPNG Format = iota
	FormatICO
	FormatICNS
)

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWindows = "windows"
	PlatformMacOS   = "macos"
)

// Target is one output file of a generation run: a square render at Size,
// serialized as Format, written to RelPath below the output root.
type Target struct {
	Platform string
	Name     string
	RelPath  string
	Size     int
	Format   Format
}

// androidDensityOrder keeps the canonical mdpi..xxxhdpi ordering for the
// default density table; profile-supplied tables are ordered by size.
var androidDensityOrder = []string{"mdpi", "hdpi", "xhdpi", "xxhdpi", "xxxhdpi"}

type iosEntry struct {
	File  string
	Size  int
	Idiom string
	Point string
	Scale string
}

// The fifteen AppIcon.appiconset entries Xcode expects for an iPhone/iPad
// app, from the 20pt notification icon up to the 1024px marketing icon.
var iosEntries = []iosEntry{
	{File: "Icon-App-20x20@1x.png", Size: 20, Idiom: "ipad", Point: "20x20", Scale: "1x"},
	{File: "Icon-App-20x20@2x.png", Size: 40, Idiom: "iphone", Point: "20x20", Scale: "2x"},
	{File: "Icon-App-20x20@3x.png", Size: 60, Idiom: "iphone", Point: "20x20", Scale: "3x"},
	{File: "Icon-App-29x29@1x.png", Size: 29, Idiom: "iphone", Point: "29x29", Scale: "1x"},
	{File: "Icon-App-29x29@2x.png", Size: 58, Idiom: "iphone", Point: "29x29", Scale: "2x"},
	{File: "Icon-App-29x29@3x.png", Size: 87, Idiom: "iphone", Point: "29x29", Scale: "3x"},
	{File: "Icon-App-40x40@1x.png", Size: 40, Idiom: "ipad", Point: "40x40", Scale: "1x"},
	{File: "Icon-App-40x40@2x.png", Size: 80, Idiom: "iphone", Point: "40x40", Scale: "2x"},
	{File: "Icon-App-40x40@3x.png", Size: 120, Idiom: "iphone", Point: "40x40", Scale: "3x"},
	{File: "Icon-App-60x60@2x.png", Size: 120, Idiom: "iphone", Point: "60x60", Scale: "2x"},
	{File: "Icon-App-60x60@3x.png", Size: 180, Idiom: "iphone", Point: "60x60", Scale: "3x"},
	{File: "Icon-App-76x76@1x.png", Size: 76, Idiom: "ipad", Point: "76x76", Scale: "1x"},
	{File: "Icon-App-76x76@2x.png", Size: 152, Idiom: "ipad", Point: "76x76", Scale: "2x"},
	{File: "Icon-App-83.5x83.5@2x.png", Size: 167, Idiom: "ipad", Point: "83.5x83.5", Scale: "2x"},
	{File: "Icon-App-1024x1024@1x.png", Size: 1024, Idiom: "ios-marketing", Point: "1024x1024", Scale: "1x"},
}

// Plan expands the requested platforms into the ordered list of output
// targets, honoring profile overrides for directories and size tables.
func Plan(platforms []string, profile config.Profile) ([]Target, error) {
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms requested")
	}
	var targets []Target
	for _, platform := range platforms {
		switch strings.ToLower(strings.TrimSpace(platform)) {
		case PlatformAndroid:
			targets = append(targets, androidTargets(profile.Android)...)
		case PlatformIOS:
			targets = append(targets, iosTargets(profile.IOS)...)
		case PlatformWindows:
			targets = append(targets, windowsTarget(profile.Windows))
		case PlatformMacOS:
			targets = append(targets, macosTarget(profile.MacOS))
		default:
			return nil, fmt.Errorf("unknown platform %q", platform)
		}
	}
	return targets, nil
}

func androidTargets(profile config.AndroidProfile) []Target {
	densities := profile.Densities
	names := make([]string, 0, len(densities))
	for name := range densities {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := densityRank(names[i]), densityRank(names[j])
		if oi != oj {
			return oi < oj
		}
		if densities[names[i]] != densities[names[j]] {
			return densities[names[i]] < densities[names[j]]
		}
		return names[i] < names[j]
	})

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		dir := "mipmap-" + name
		targets = append(targets, Target{
			Platform: PlatformAndroid,
			Name:     path.Join(dir, profile.File),
			RelPath:  path.Join(profile.Dir, dir, profile.File),
			Size:     densities[name],
			Format:   FormatPNG,
		})
	}
	return targets
}

func densityRank(name string) int {
	for i, known := range androidDensityOrder {
		if known == name {
			return i
		}
	}
	return len(androidDensityOrder)
}

func iosTargets(profile config.IOSProfile) []Target {
	targets := make([]Target, 0, len(iosEntries))
	for _, entry := range iosEntries {
		targets = append(targets, Target{
			Platform: PlatformIOS,
			Name:     entry.File,
			RelPath:  path.Join(profile.Dir, entry.File),
			Size:     entry.Size,
			Format:   FormatPNG,
		})
	}
	return targets
}

func windowsTarget(profile config.WindowsProfile) Target {
	return Target{
		Platform: PlatformWindows,
		Name:     "app.ico",
		RelPath:  path.Join(profile.Dir, "app.ico"),
		Size:     profile.Size,
		Format:   FormatICO,
	}
}

func macosTarget(profile config.MacOSProfile) Target {
	return Target{
		Platform: PlatformMacOS,
		Name:     "AppIcon.icns",
		RelPath:  path.Join(profile.Dir, "AppIcon.icns"),
		Size:     profile.Size,
		Format:   FormatICNS,
	}
}
