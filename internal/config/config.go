package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
)

// AppName names the config, data and log locations
const AppName = "cratetui"

//go:embed default.toml
var defaultTOML []byte

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the application configuration. It is built once at startup and
// shared by pointer; nothing mutates it after Load returns.
type Config struct {
	DataDir     string                       `toml:"data_dir"`
	LogLevel    string                       `toml:"log_level"`
	TickRate    Duration                     `toml:"tick_rate"`
	PageSize    int                          `toml:"page_size"`
	Sort        string                       `toml:"sort"`
	EnableMouse bool                         `toml:"enable_mouse"`
	Registry    RegistrySettings             `toml:"registry"`
	Style       Style                        `toml:"style"`
	KeyBindings map[string]map[string]string `toml:"keybindings"`
}

// RegistrySettings configures the crates.io client
type RegistrySettings struct {
	BaseURL   string   `toml:"base_url"`
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"`
	Burst     int      `toml:"burst"`
}

// Style holds lipgloss color strings (ANSI numbers or hex)
type Style struct {
	Title    string `toml:"title"`
	Accent   string `toml:"accent"`
	Muted    string `toml:"muted"`
	Selected string `toml:"selected"`
	Error    string `toml:"error"`
	Info     string `toml:"info"`
	Border   string `toml:"border"`
	RowAlt   string `toml:"row_alt"`
}

// Duration is a time.Duration written as a Go duration string in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// DefaultPath returns the user's config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	var cfg Config
	if err := toml.Unmarshal(defaultTOML, &cfg); err != nil {
		// default.toml ships with the binary
		panic(fmt.Sprintf("failed to parse built-in config: %v", err))
	}
	cfg.fillDataDir()
	return &cfg
}

// Load reads the user config at path over the defaults. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Debug("no config file, using defaults")
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return merge(cfg, data)
}

func merge(cfg *Config, data []byte) (*Config, error) {
	defaults := cfg.KeyBindings
	cfg.KeyBindings = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	merged := make(map[string]map[string]string, len(defaults))
	for section, bindings := range defaults {
		merged[section] = make(map[string]string, len(bindings))
		for k, v := range bindings {
			merged[section][k] = v
		}
	}
	for section, bindings := range cfg.KeyBindings {
		if merged[section] == nil {
			merged[section] = make(map[string]string, len(bindings))
		}
		for k, v := range bindings {
			if v == "" {
				delete(merged[section], k)
				continue
			}
			merged[section][k] = v
		}
	}
	cfg.KeyBindings = merged
	cfg.fillDataDir()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath writes cfg as TOML, creating the directory if needed
func SaveToPath(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFile(path, data)
}

// WriteDefault writes the commented built-in config to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return writeFile(path, defaultTOML)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("%w: page_size must be between 1 and 100, got %d", ErrInvalidConfig, c.PageSize)
	}
	if c.TickRate.Duration <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	}
	if c.Registry.Timeout.Duration < 0 {
		return fmt.Errorf("%w: registry.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Registry.RateLimit < 0 {
		return fmt.Errorf("%w: registry.rate_limit must not be negative", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) fillDataDir() {
	if c.DataDir != "" {
		return
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	c.DataDir = filepath.Join(dir, AppName)
}
