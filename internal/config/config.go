package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ParseSettings describe how raw lines are split and unquoted.
type ParseSettings struct {
	Separator string `yaml:"separator,omitempty"`
	Quote     string `yaml:"quote,omitempty"`
	Extension string `yaml:"extension,omitempty"`
}

// LoadSettings describe where load runs put their output.
type LoadSettings struct {
	Store     string `yaml:"store,omitempty"`
	BatchSize int    `yaml:"batch_size,omitempty"`
}

// RewriteSettings describe where rewrite runs put their output.
type RewriteSettings struct {
	Output string `yaml:"output,omitempty"`
}

// ProjectConfig is the optional per-directory configuration read from
// sanitize.yaml next to the input data. Flags and environment variables
// take precedence over it; zero values mean "not set".
type ProjectConfig struct {
	Parse   ParseSettings   `yaml:"parse"`
	Load    LoadSettings    `yaml:"load"`
	Rewrite RewriteSettings `yaml:"rewrite"`
}

const ConfigFileName = "sanitize.yaml"

// Load reads sanitize.yaml from the given input directory. A missing
// file is reported as ErrConfigNotFound so callers can fall back to
// defaults.
func Load(inputDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(inputDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
