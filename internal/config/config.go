package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file, applies defaults and expands environment
// variables. Files ending in .yaml or .yml are parsed as YAML; everything
// else is parsed as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// expandEnvVars expands ${VAR} references and ~ in all path-like values.
func expandEnvVars(c *Config) {
	c.Logging.Output = expandEnv(c.Logging.Output)
	c.Metrics.TextfilePath = expandHome(expandEnv(c.Metrics.TextfilePath))

	for i := range c.Policies {
		c.Policies[i].Directory = expandHome(expandEnv(c.Policies[i].Directory))
	}
}
