package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Instagram.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL to be %s, got %s", DefaultBaseURL, config.Instagram.BaseURL)
	}

	if config.Instagram.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout to be 10s, got %v", config.Instagram.Timeout)
	}

	if config.Logging.Level != "warn" {
		t.Errorf("Expected default log level to be warn, got %s", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INSTARECON_SESSION_ID", "env-session")
	t.Setenv("INSTARECON_ACCOUNT", "work")
	t.Setenv("INSTARECON_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("INSTARECON_TIMEOUT", "3s")
	t.Setenv("INSTARECON_NO_COLOR", "true")
	t.Setenv("INSTARECON_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Instagram.SessionID != "env-session" {
		t.Errorf("Expected session ID to be env-session, got %s", config.Instagram.SessionID)
	}
	if config.Instagram.Account != "work" {
		t.Errorf("Expected account to be work, got %s", config.Instagram.Account)
	}
	if config.Instagram.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("Expected base URL override, got %s", config.Instagram.BaseURL)
	}
	if config.Instagram.Timeout != 3*time.Second {
		t.Errorf("Expected timeout to be 3s, got %v", config.Instagram.Timeout)
	}
	if !config.Output.NoColor {
		t.Error("Expected no-color to be enabled")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("INSTARECON_TIMEOUT", "soon")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected error for invalid timeout")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
instagram:
  session_id: file-session
  timeout: 5s
output:
  no_banner: true
logging:
  level: info
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Instagram.SessionID != "file-session" {
		t.Errorf("Expected session ID to be file-session, got %s", config.Instagram.SessionID)
	}
	if config.Instagram.Timeout != 5*time.Second {
		t.Errorf("Expected timeout to be 5s, got %v", config.Instagram.Timeout)
	}
	if config.Instagram.BaseURL != DefaultBaseURL {
		t.Errorf("Expected untouched base URL to keep its default, got %s", config.Instagram.BaseURL)
	}
	if !config.Output.NoBanner {
		t.Error("Expected no_banner to be true")
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("instagram: [unclosed"), 0600)
	if err := config.LoadFromFile(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "empty base URL",
			mutate:    func(c *Config) { c.Instagram.BaseURL = "" },
			wantError: "base URL is required",
		},
		{
			name:      "relative base URL",
			mutate:    func(c *Config) { c.Instagram.BaseURL = "i.instagram.com" },
			wantError: "invalid base URL",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Instagram.Timeout = 0 },
			wantError: "timeout must be positive",
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: "invalid log level",
		},
		{
			name:      "unsupported export format",
			mutate:    func(c *Config) { c.Output.ExportPath = "report.csv" },
			wantError: "unsupported export format",
		},
		{
			name:   "yaml export",
			mutate: func(c *Config) { c.Output.ExportPath = "out/report.YML" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantError == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.Instagram.SessionID = "from-env"

	config.MergeCommandLineFlags(map[string]interface{}{
		"sessionid": "from-flag",
		"no-banner": true,
		"debug":     true,
		"output":    "report.json",
		"log-level": "error",
	})

	if config.Instagram.SessionID != "from-flag" {
		t.Errorf("Expected flag to win over env, got %s", config.Instagram.SessionID)
	}
	if !config.Output.NoBanner || !config.Output.Debug {
		t.Error("Expected no-banner and debug to be set")
	}
	if config.Output.ExportPath != "report.json" {
		t.Errorf("Expected export path report.json, got %s", config.Output.ExportPath)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}

	// Absent keys leave earlier sources alone
	config.MergeCommandLineFlags(map[string]interface{}{})
	if config.Instagram.SessionID != "from-flag" {
		t.Errorf("Empty flag map should not reset session, got %s", config.Instagram.SessionID)
	}
}

func TestLoad(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INSTARECON_SESSION_ID", "env-session")

	config, err := Load("", map[string]interface{}{"log-level": "debug"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if config.Instagram.SessionID != "env-session" {
		t.Errorf("Expected env session, got %s", config.Instagram.SessionID)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected flag log level, got %s", config.Logging.Level)
	}

	if _, err := Load("", map[string]interface{}{"log-level": "loud"}); err == nil {
		t.Error("Expected validation error for bad log level")
	}
}
