package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/retrato"
	projectConfigDir = ".retrato"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user and project settings.
func LoadConfig() (RetratoConfig, error) {
	cfg := GetDefaultConfig()

	for _, layer := range []struct {
		name string
		path func() (string, error)
	}{
		{"user", getUserConfigPath},
		{"project", getProjectConfigPath},
	} {
		path, err := layer.path()
		if err != nil {
			// A missing home or working directory only disables that layer.
			fmt.Fprintf(os.Stderr, "Warning: could not determine %s config path: %v\n", layer.name, err)
			continue
		}
		cfg, err = overlayFile(cfg, path)
		if err != nil {
			return RetratoConfig{}, fmt.Errorf("error loading %s config from %s: %w", layer.name, path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return RetratoConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromPath loads defaults overlaid with <dir>/config.yaml only.
func LoadConfigFromPath(dir string) (RetratoConfig, error) {
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err != nil {
		return RetratoConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg, err := overlayFile(GetDefaultConfig(), path)
	if err != nil {
		return RetratoConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return RetratoConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var getUserConfigPath = func() (string, error) {
	dir, err := GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// overlayFile decodes the YAML file on top of base. Keys absent from the
// file keep their base value. A missing file returns base unchanged.
func overlayFile(base RetratoConfig, path string) (RetratoConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return RetratoConfig{}, err
	}

	merged := base
	merged.Wizard.Formats = nil
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return RetratoConfig{}, err
	}
	merged.Wizard.Formats = mergeFormats(base.Wizard.Formats, merged.Wizard.Formats)
	return merged, nil
}

// mergeFormats replaces same-name formats in place and appends new ones,
// keeping the base order stable for display.
func mergeFormats(base, overlay []FormatDefinition) []FormatDefinition {
	out := append([]FormatDefinition(nil), base...)
	index := make(map[string]int, len(out))
	for i, f := range out {
		index[f.Name] = i
	}
	for _, f := range overlay {
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		index[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
