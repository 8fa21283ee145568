package config

import (
	"reflect"
	"testing"
)

func TestNormalizePlatforms(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "empty uses defaults", in: nil, want: []string{"android", "ios"}},
		{name: "blank entries use defaults", in: []string{"", "  "}, want: []string{"android", "ios"}},
		{name: "single platform", in: []string{"android"}, want: []string{"android"}},
		{name: "case and whitespace", in: []string{" Android ", "IOS"}, want: []string{"android", "ios"}},
		{name: "deduplicates", in: []string{"ios", "ios", "android"}, want: []string{"ios", "android"}},
		{name: "all expands", in: []string{"all"}, want: []string{"android", "ios", "windows", "macos"}},
		{name: "all plus explicit dedupes", in: []string{"macos", "all"}, want: []string{"macos", "android", "ios", "windows"}},
		{name: "unknown platform", in: []string{"beos"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePlatforms(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePlatforms(%v) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePlatforms(%v) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NormalizePlatforms(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "minimal valid", opts: Options{Out: "dist"}},
		{name: "missing out", opts: Options{}, wantErr: true},
		{name: "watch without source", opts: Options{Out: "dist", Watch: true}, wantErr: true},
		{name: "watch with source", opts: Options{Out: "dist", Watch: true, Source: "logo.png"}},
		{name: "watch with emblem", opts: Options{Out: "dist", Watch: true, Source: "logo.png", Emblem: true}, wantErr: true},
		{name: "bad platform", opts: Options{Out: "dist", Platforms: []string{"amiga"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.opts)
			if tt.wantErr && err == nil {
				t.Fatalf("ValidateRequired(%+v) expected error", tt.opts)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ValidateRequired(%+v) error = %v", tt.opts, err)
			}
		})
	}
}
