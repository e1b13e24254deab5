package config

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadEnv loads environment variables from a .env style file. Lines are
// KEY=VALUE pairs; empty lines and lines starting with # are ignored.
func LoadEnv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key != "" {
			os.Setenv(key, value)
		}
	}

	return nil
}

// LoadEnvOptional loads a .env file if it exists and does nothing otherwise.
func LoadEnvOptional(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return LoadEnv(path)
}

// expandEnv expands a leading ${VAR} or ${VAR:default} reference. The rest
// of the string is kept as-is, so "${LOG_DIR:/var/log}/app" works.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	rest := s[end+1:]

	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val + rest
		}
		return defaultVal + rest
	}

	return os.Getenv(content) + rest
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
