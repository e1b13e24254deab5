// Package config provides configuration loading and validation for filesweep.
// It supports TOML and YAML configuration files with environment variable
// expansion, default values, and validation.
//
// Configuration structure:
//   - [logging]: Logging level, format, and output
//   - [metrics]: Optional metrics textfile export
//   - [enforcer]: Worker pool sizing
//   - [[policy]]: One or more retention policies
//
// Environment variables:
// String values can reference environment variables using ${VAR} or
// ${VAR:default} syntax. For example: directory = "${LOG_DIR:/var/log}"
package config

import "github.com/aatumaykin/filesweep/internal/enforcer"

// Config represents the main application configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
	Enforcer EnforcerConfig `toml:"enforcer" yaml:"enforcer"`
	Policies []PolicyConfig `toml:"policy" yaml:"policies"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

// MetricsConfig controls the optional metrics textfile written after a run.
type MetricsConfig struct {
	Enabled      bool   `toml:"enabled" yaml:"enabled"`
	TextfilePath string `toml:"textfile_path" yaml:"textfile_path"`
}

// EnforcerConfig controls the enforcement worker pool.
type EnforcerConfig struct {
	MaxWorkers int `toml:"max_workers" yaml:"max_workers"`
}

// PolicyConfig describes one retention policy.
type PolicyConfig struct {
	Directory  string `toml:"directory" yaml:"directory"`
	Pattern    string `toml:"pattern" yaml:"pattern"`
	Recursive  bool   `toml:"recursive" yaml:"recursive"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// ToEnforcerConfiguration converts the loaded config into the enforcement
// engine's input structure.
func (c *Config) ToEnforcerConfiguration() enforcer.Configuration {
	policies := make([]enforcer.Policy, 0, len(c.Policies))
	for _, p := range c.Policies {
		policies = append(policies, enforcer.Policy{
			Directory:  p.Directory,
			Pattern:    p.Pattern,
			Recursive:  p.Recursive,
			MaxAgeDays: p.MaxAgeDays,
		})
	}
	return enforcer.Configuration{
		MaxWorkers: c.Enforcer.MaxWorkers,
		Policies:   policies,
	}
}
