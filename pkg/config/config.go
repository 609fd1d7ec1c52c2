package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for instarecon
type Config struct {
	// Remote API and session
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Report presentation
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds API access settings
type InstagramConfig struct {
	SessionID string        `yaml:"session_id" json:"session_id"`
	Account   string        `yaml:"account" json:"account"`
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputConfig holds report presentation settings
type OutputConfig struct {
	NoBanner   bool   `yaml:"no_banner" json:"no_banner"`
	NoColor    bool   `yaml:"no_color" json:"no_color"`
	Debug      bool   `yaml:"debug" json:"debug"`
	ExportPath string `yaml:"export_path" json:"export_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

const (
	// DefaultBaseURL is the private API host all three endpoints live on
	DefaultBaseURL = "https://i.instagram.com"

	// DefaultTimeout bounds every single request
	DefaultTimeout = 10 * time.Second

	envPrefix = "INSTARECON_"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from INSTARECON_* environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv(envPrefix + "SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if account := os.Getenv(envPrefix + "ACCOUNT"); account != "" {
		c.Instagram.Account = account
	}
	if baseURL := os.Getenv(envPrefix + "BASE_URL"); baseURL != "" {
		c.Instagram.BaseURL = baseURL
	}
	if timeout := os.Getenv(envPrefix + "TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.Instagram.Timeout = d
	}
	if noColor := os.Getenv(envPrefix + "NO_COLOR"); noColor != "" {
		c.Output.NoColor = strings.ToLower(noColor) == "true" || noColor == "1"
	}
	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// An empty path means: try the default locations, none is fine
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	locations := []string{
		".instarecon.yaml",
		".instarecon.yml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "instarecon", "config.yaml"),
			filepath.Join(home, ".config", "instarecon", "config.yml"),
			filepath.Join(home, ".instarecon.yaml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The session token is not
// checked here: it may still come from the credential store.
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	} else if u, err := url.Parse(c.Instagram.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base URL: %q", c.Instagram.BaseURL))
	}

	if c.Instagram.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Logging.Level))
	}

	if p := c.Output.ExportPath; p != "" {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json", ".yaml", ".yml":
		default:
			errs = append(errs, fmt.Errorf("unsupported export format: %q", filepath.Ext(p)))
		}
	}

	return errors.Join(errs...)
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override earlier sources.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["sessionid"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if account, ok := flags["account"].(string); ok && account != "" {
		c.Instagram.Account = account
	}
	if noBanner, ok := flags["no-banner"].(bool); ok {
		c.Output.NoBanner = noBanner
	}
	if noColor, ok := flags["no-color"].(bool); ok {
		c.Output.NoColor = noColor
	}
	if debug, ok := flags["debug"].(bool); ok {
		c.Output.Debug = debug
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.ExportPath = output
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence:
// flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".instarecon.env"))
	}

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
