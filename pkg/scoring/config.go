package scoring

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of the weight table and thresholds. Missing
// sections fall back to the defaults so a partial override stays safe.
type Config struct {
	Weights    *Weights    `json:"weights,omitempty" yaml:"weights,omitempty"`
	Thresholds *Thresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// ParseConfig decodes a YAML (or JSON, YAML being a superset here) document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scoring: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFS reads and parses a config file from the provided filesystem.
func LoadConfigFS(fsys fs.FS, path string) (Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("scoring: read %s: %w", path, err)
	}
	return ParseConfig(data)
}

// NewFromConfig creates a Scorer applying any overrides the config carries.
func NewFromConfig(cfg Config) *Scorer {
	options := make([]Option, 0, 2)
	if cfg.Weights != nil {
		options = append(options, WithWeights(*cfg.Weights))
	}
	if cfg.Thresholds != nil {
		options = append(options, WithThresholds(*cfg.Thresholds))
	}
	return New(options...)
}
