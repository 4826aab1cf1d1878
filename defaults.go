package marvrun

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "marvrun"

// Defaults holds launcher defaults read from a YAML file. Empty fields are
// treated as unset; environment overrides always take precedence.
type Defaults struct {
	Name     string `yaml:"name"`     // container name
	Listen   string `yaml:"listen"`   // published host:port
	Image    string `yaml:"image"`    // image reference
	Timezone string `yaml:"timezone"` // timezone passed to the container
}

// DefaultsPath returns the conventional defaults file location:
// $XDG_CONFIG_HOME/marvrun/config.yaml.
func DefaultsPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadDefaults reads the defaults file at path. When explicit is false a
// missing file yields zero Defaults; when explicit is true it yields
// ErrDefaultsNotFound. A malformed file is always an error.
func LoadDefaults(path string, explicit bool) (Defaults, error) {
	//nolint:gosec // user-provided config path is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Defaults{}, fmt.Errorf("%w: %s", ErrDefaultsNotFound, path)
			}
			return Defaults{}, nil
		}
		return Defaults{}, fmt.Errorf("read defaults: %w", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parse defaults %s: %w", path, err)
	}
	return d, nil
}
