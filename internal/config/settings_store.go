package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ForgeSettings remembers the last-used generation inputs so a bare
// `iconforge` invocation can repeat the previous run.
type ForgeSettings struct {
	Source    string   `json:"source"`
	Out       string   `json:"out"`
	Platforms []string `json:"platforms,omitempty"`
	Profile   string   `json:"profile,omitempty"`
	Debug     bool     `json:"debug"`
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "iconforge", "settings.json"), nil
}

func LoadSettings() (ForgeSettings, error) {
	path, err := SettingsPath()
	if err != nil {
		return ForgeSettings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ForgeSettings{}, err
	}
	var settings ForgeSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return ForgeSettings{}, err
	}
	return settings, nil
}

func SaveSettings(settings ForgeSettings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// MergeOptionsWithSettings fills fields the CLI left empty from the saved
// settings; explicit flags always win.
func MergeOptionsWithSettings(cli Options, saved ForgeSettings) Options {
	if strings.TrimSpace(cli.Source) == "" && !cli.Emblem {
		cli.Source = saved.Source
	}
	if strings.TrimSpace(cli.Out) == "" || cli.Out == DefaultOutDir {
		if strings.TrimSpace(saved.Out) != "" {
			cli.Out = saved.Out
		}
	}
	if len(cli.Platforms) == 0 && len(saved.Platforms) > 0 {
		cli.Platforms = append([]string(nil), saved.Platforms...)
	}
	if strings.TrimSpace(cli.Profile) == "" {
		cli.Profile = saved.Profile
	}
	if !cli.Debug {
		cli.Debug = saved.Debug
	}
	return cli
}

func SettingsFromOptions(opts Options) ForgeSettings {
	return ForgeSettings{
		Source:    strings.TrimSpace(opts.Source),
		Out:       strings.TrimSpace(opts.Out),
		Platforms: append([]string(nil), opts.Platforms...),
		Profile:   strings.TrimSpace(opts.Profile),
		Debug:     opts.Debug,
	}
}
