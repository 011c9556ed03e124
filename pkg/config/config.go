package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level oracle-node configuration file.
type Config struct {
	Logger     Logger              `yaml:"Logger"`
	Oracle     OracleConfiguration `yaml:"Oracle"`
	Prometheus BasicService        `yaml:"Prometheus"`
}

// Load reads and parses a YAML configuration file from path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Logger.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
