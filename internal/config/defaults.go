package config

// Default values applied to fields left empty in the config file.
const (
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultLogOutput  = "stdout"
	DefaultMaxWorkers = 4
	DefaultPattern    = "*"
)

// applyDefaults fills in defaults for unset fields.
func applyDefaults(c *Config) {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = DefaultLogOutput
	}

	if c.Enforcer.MaxWorkers == 0 {
		c.Enforcer.MaxWorkers = DefaultMaxWorkers
	}

	for i := range c.Policies {
		if c.Policies[i].Pattern == "" {
			c.Policies[i].Pattern = DefaultPattern
		}
	}
}
