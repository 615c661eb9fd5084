// Package config loads trecsearch's optional YAML configuration file:
// normalization pipeline toggles plus the scorers' tunable
// parameters. A missing file is not an error — every field has a
// spec-mandated default. No CLI flag sets any of these fields; the
// file is their only source besides the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/scoring"
)

// Config holds every tunable knob trecsearch exposes across indexing
// and scoring.
type Config struct {
	Normalizer normalize.Config `yaml:"normalizer"`
	K1         float64          `yaml:"k1"`
	B          float64          `yaml:"b"`
	K3         float64          `yaml:"k3"`
}

// Default returns the spec-mandated defaults for every field.
func Default() Config {
	return Config{
		Normalizer: normalize.DefaultConfig(),
		K1:         scoring.DefaultK1,
		B:          scoring.DefaultB,
		K3:         scoring.DefaultK3,
	}
}

// DefaultPath returns ~/.trecsearch/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trecsearch/config.yaml"
	}
	return filepath.Join(home, ".trecsearch", "config.yaml")
}

// Load reads DefaultPath(), falling back to defaults if it does not
// exist.
func Load() (Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the YAML config file at path over a copy of the
// defaults, so any field the file omits keeps its default value. A
// missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
