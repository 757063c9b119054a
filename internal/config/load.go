package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the ecm configuration file.
const ConfigFileName = "ecm.toml"

// FindConfigFile walks up from the given directory to find ecm.toml.
// Returns the absolute path to the config file, or an empty string if not
// found. Stops at the filesystem root.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root.
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile parses the TOML file at the given path into a Config seeded
// with defaults, so absent keys keep their default values (including the
// [flows] booleans, which default to true). The returned metadata exposes
// unknown keys via MetaData.Undecoded().
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	cfg := NewDefaults()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, md, nil
}

// Load locates ecm.toml from startDir (or uses explicitPath when non-empty),
// parses it, applies defaults, and validates. When no config file exists the
// defaults are returned with an empty path; entry flows work locally without
// any configuration, only `ecm push` requires a registry section.
func Load(startDir, explicitPath string) (*Config, string, error) {
	path := explicitPath
	if path == "" {
		found, err := FindConfigFile(startDir)
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	if path == "" {
		return NewDefaults(), "", nil
	}

	cfg, _, err := LoadFromFile(path)
	if err != nil {
		return nil, path, err
	}

	result := Validate(cfg)
	if result.HasErrors() {
		var msgs []string
		for _, issue := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
		}
		return nil, path, fmt.Errorf("invalid config %s: %s", path, strings.Join(msgs, "; "))
	}

	return cfg, path, nil
}
