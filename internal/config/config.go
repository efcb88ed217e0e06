package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no config path is given on the command line.
const DefaultPath = "config.yaml"

// Config holds all runtime configuration for the client.
type Config struct {
	APIBaseURL   string `yaml:"apiBaseURL"`
	TokenPath    string `yaml:"tokenPath"`
	PushToken    string `yaml:"pushToken"`
	UploadURL    string `yaml:"uploadURL"`
	UploadPreset string `yaml:"uploadPreset"`
	LogLevel     string `yaml:"logLevel"`

	Debounce string `yaml:"debounce"`
	Poll     string `yaml:"pollInterval"`
	Timeout  string `yaml:"requestTimeout"`

	DebounceInterval time.Duration `yaml:"-"`
	PollInterval     time.Duration `yaml:"-"`
	RequestTimeout   time.Duration `yaml:"-"`
}

// Load reads config from path and applies FROSTMART_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		TokenPath:        defaultTokenPath(),
		LogLevel:         "info",
		DebounceInterval: 300 * time.Millisecond,
		PollInterval:     15 * time.Second,
		RequestTimeout:   10 * time.Second,
	}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if d, err := parseDuration(cfg.Debounce); err == nil && d > 0 {
		cfg.DebounceInterval = d
	}
	if d, err := parseDuration(cfg.Poll); err == nil && d > 0 {
		cfg.PollInterval = d
	}
	if d, err := parseDuration(cfg.Timeout); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}
	applyEnv(&cfg)
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return cfg, fmt.Errorf("apiBaseURL is required")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 300 * time.Millisecond
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FROSTMART_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_TOKEN_PATH"); v != "" {
		cfg.TokenPath = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_PUSH_TOKEN"); v != "" {
		cfg.PushToken = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_UPLOAD_URL"); v != "" {
		cfg.UploadURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_UPLOAD_PRESET"); v != "" {
		cfg.UploadPreset = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("FROSTMART_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.DebounceInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("FROSTMART_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.PollInterval = time.Duration(n) * time.Second
		}
	}
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	return time.ParseDuration(s)
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".frostmart-token"
	}
	return filepath.Join(dir, "frostmart", "token")
}
