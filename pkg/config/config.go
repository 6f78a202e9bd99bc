package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Backend         BackendConfig `json:"backend" yaml:"backend"`
	DefaultLanguage string        `json:"default_language" yaml:"default_language"`
	Languages       []string      `json:"languages" yaml:"languages"`
	KnownLanguage   string        `json:"known_language" yaml:"known_language"`
	LogLevel        string        `json:"log_level" yaml:"log_level"`
	LogFile         string        `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat       string        `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

// BackendConfig holds the tutoring backend connection settings
type BackendConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"` // 0 disables the client timeout
	UserID         string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	StartingLevel  string `json:"starting_level,omitempty" yaml:"starting_level,omitempty"`
}

const (
	DefaultBaseURL  = "http://127.0.0.1:5000"
	DefaultLanguage = "spanish"
)

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: 60,
		},
		DefaultLanguage: DefaultLanguage,
		Languages:       []string{"spanish", "french", "german", "italian", "portuguese"},
		KnownLanguage:   "english",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Paths ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnvironmentOverrides(cfg), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Fields absent from the file keep their defaults.
	cfg := Default()
	if isYAML(configPath) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg = applyEnvironmentOverrides(cfg)

	slog.Debug("config_loaded",
		"path", configPath,
		"backend", cfg.Backend.BaseURL,
		"default_language", cfg.DefaultLanguage,
		"log_level", cfg.LogLevel)

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(configPath) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base_url %q: %w", c.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend base_url must be http or https, got: %q", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend base_url has no host: %q", c.Backend.BaseURL)
	}

	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got: %d", c.Backend.TimeoutSeconds)
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("languages must not be empty")
	}
	if !slices.Contains(c.Languages, c.DefaultLanguage) {
		return fmt.Errorf("default_language %q is not in languages %v", c.DefaultLanguage, c.Languages)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lingochat", "config.json")
	}
	return filepath.Join(homeDir, ".lingochat", "config.json")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// applyEnvironmentOverrides applies LINGOCHAT_* environment variables on top of the file values.
func applyEnvironmentOverrides(cfg Config) Config {
	if baseURL := strings.TrimSpace(os.Getenv("LINGOCHAT_BACKEND_URL")); baseURL != "" {
		slog.Debug("config_env_override", "var", "LINGOCHAT_BACKEND_URL", "value", baseURL)
		cfg.Backend.BaseURL = baseURL
	}

	if timeoutEnv := os.Getenv("LINGOCHAT_TIMEOUT"); timeoutEnv != "" {
		if timeout, err := strconv.Atoi(timeoutEnv); err == nil && timeout >= 0 {
			slog.Debug("config_env_override", "var", "LINGOCHAT_TIMEOUT", "value", timeout)
			cfg.Backend.TimeoutSeconds = timeout
		}
	}

	if lang := strings.TrimSpace(os.Getenv("LINGOCHAT_LANGUAGE")); lang != "" {
		lang = strings.ToLower(lang)
		slog.Debug("config_env_override", "var", "LINGOCHAT_LANGUAGE", "value", lang)
		cfg.DefaultLanguage = lang
		if !slices.Contains(cfg.Languages, lang) {
			cfg.Languages = append(cfg.Languages, lang)
		}
	}

	if logLevel := os.Getenv("LINGOCHAT_LOG_LEVEL"); logLevel != "" {
		logLevel = strings.ToLower(logLevel)
		for _, valid := range []string{"debug", "info", "warn", "error"} {
			if logLevel == valid {
				cfg.LogLevel = logLevel
				break
			}
		}
	}

	return cfg
}
