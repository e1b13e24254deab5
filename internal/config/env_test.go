package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `
# comment line
FILESWEEP_ENV_A=hello

FILESWEEP_ENV_B = spaced
not-a-pair
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("FILESWEEP_ENV_A", "")
	t.Setenv("FILESWEEP_ENV_B", "")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if got := os.Getenv("FILESWEEP_ENV_A"); got != "hello" {
		t.Errorf("expected FILESWEEP_ENV_A=hello, got %q", got)
	}
	if got := os.Getenv("FILESWEEP_ENV_B"); got != "spaced" {
		t.Errorf("expected FILESWEEP_ENV_B=spaced, got %q", got)
	}
}

func TestLoadEnvOptional(t *testing.T) {
	if err := LoadEnvOptional(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("expected nil for missing file, got %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FILESWEEP_EXPAND_SET", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string untouched", "/var/log", "/var/log"},
		{"set variable", "${FILESWEEP_EXPAND_SET}", "/data"},
		{"set variable with suffix", "${FILESWEEP_EXPAND_SET}/logs", "/data/logs"},
		{"unset variable with default", "${FILESWEEP_EXPAND_UNSET:/fallback}", "/fallback"},
		{"set variable beats default", "${FILESWEEP_EXPAND_SET:/fallback}", "/data"},
		{"unset variable without default", "${FILESWEEP_EXPAND_UNSET}", ""},
		{"unterminated reference untouched", "${BROKEN", "${BROKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.in); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
