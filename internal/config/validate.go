package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() []error {
	var errors []error

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		errors = append(errors, fmt.Errorf("metrics.textfile_path is required when metrics.enabled=true"))
	}

	if c.Enforcer.MaxWorkers < 1 {
		errors = append(errors, fmt.Errorf("enforcer.max_workers must be >= 1"))
	}

	for i, p := range c.Policies {
		if p.Directory == "" {
			errors = append(errors, fmt.Errorf("policy[%d].directory is required", i))
		}
		if p.Pattern == "" {
			errors = append(errors, fmt.Errorf("policy[%d].pattern is required", i))
		} else if _, err := filepath.Match(p.Pattern, ""); err != nil {
			errors = append(errors, fmt.Errorf("policy[%d].pattern is not a valid glob: %s", i, p.Pattern))
		}
		if p.MaxAgeDays < 0 {
			errors = append(errors, fmt.Errorf("policy[%d].max_age_days must be >= 0", i))
		}
	}

	return errors
}
