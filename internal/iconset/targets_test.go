package iconset

import (
	"strings"
	"testing"

	"iconforge/internal/config"
)

func TestPlan_AndroidDefaults(t *testing.T) {
	targets, err := Plan([]string{"android"}, config.DefaultProfile())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	want := []struct {
		rel  string
		size int
	}{
		{rel: "android/res/mipmap-mdpi/ic_launcher.png", size: 48},
		{rel: "android/res/mipmap-hdpi/ic_launcher.png", size: 72},
		{rel: "android/res/mipmap-xhdpi/ic_launcher.png", size: 96},
		{rel: "android/res/mipmap-xxhdpi/ic_launcher.png", size: 144},
		{rel: "android/res/mipmap-xxxhdpi/ic_launcher.png", size: 192},
	}
	if len(targets) != len(want) {
		t.Fatalf("Plan() returned %d targets, want %d", len(targets), len(want))
	}
	for i, target := range targets {
		if target.RelPath != want[i].rel || target.Size != want[i].size {
			t.Fatalf("target[%d] = %q size %d, want %q size %d",
				i, target.RelPath, target.Size, want[i].rel, want[i].size)
		}
		if target.Format != FormatPNG {
			t.Fatalf("target[%d] format = %v, want FormatPNG", i, target.Format)
		}
	}
}

func TestPlan_IOSDefaults(t *testing.T) {
	targets, err := Plan([]string{"ios"}, config.DefaultProfile())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(targets) != 15 {
		t.Fatalf("Plan() returned %d iOS targets, want 15", len(targets))
	}
	bySize := map[int]int{}
	for _, target := range targets {
		if !strings.HasPrefix(target.RelPath, "ios/AppIcon.appiconset/") {
			t.Fatalf("unexpected iOS path %q", target.RelPath)
		}
		if !strings.HasPrefix(target.Name, "Icon-App-") {
			t.Fatalf("unexpected iOS filename %q", target.Name)
		}
		bySize[target.Size]++
	}
	if bySize[1024] != 1 {
		t.Fatalf("expected exactly one 1024px marketing icon, got %d", bySize[1024])
	}
	// 40pt@3x and 60pt@2x share 120px.
	if bySize[120] != 2 {
		t.Fatalf("expected two 120px entries, got %d", bySize[120])
	}
}

func TestPlan_DesktopSingletons(t *testing.T) {
	targets, err := Plan([]string{"windows", "macos"}, config.DefaultProfile())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("Plan() returned %d targets, want 2", len(targets))
	}
	if targets[0].Format != FormatICO || targets[0].Size != 256 {
		t.Fatalf("windows target = %+v", targets[0])
	}
	if targets[1].Format != FormatICNS || targets[1].Size != 1024 {
		t.Fatalf("macos target = %+v", targets[1])
	}
}

func TestPlan_ProfileDensityOverride(t *testing.T) {
	profile := config.DefaultProfile()
	profile.Android.Densities = map[string]int{"ldpi": 36, "tvdpi": 213}
	targets, err := Plan([]string{"android"}, profile)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("Plan() returned %d targets, want 2", len(targets))
	}
	// Unknown density names order by pixel size.
	if targets[0].Size != 36 || targets[1].Size != 213 {
		t.Fatalf("sizes = %d, %d; want 36, 213", targets[0].Size, targets[1].Size)
	}
}

func TestPlan_UnknownPlatform(t *testing.T) {
	if _, err := Plan([]string{"solaris"}, config.DefaultProfile()); err == nil {
		t.Fatalf("expected error for unknown platform")
	}
	if _, err := Plan(nil, config.DefaultProfile()); err == nil {
		t.Fatalf("expected error for empty platform list")
	}
}
