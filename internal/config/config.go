package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds catalog API configuration
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url"` // e.g. https://swapi.dev/api
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProbeConfig holds connectivity check configuration
type ProbeConfig struct {
	URL     string        `mapstructure:"url"` // Defaults to the server base URL when empty
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Dir        string `mapstructure:"dir"`         // Empty = memory-only cache
	ImageRange int    `mapstructure:"image_range"` // Upper bound (exclusive) for derived image ids
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowHelp bool `mapstructure:"show_help"`
	PageHint bool `mapstructure:"page_hint"` // Show "more available" footer hint
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File      string `mapstructure:"file"`        // Empty disables file logging
	Level     string `mapstructure:"level"`
	MaxSizeMB int    `mapstructure:"max_size_mb"` // Rotate to <file>.1 on startup past this size; 0 never rotates
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "https://swapi.dev/api",
			Timeout: 30 * time.Second,
		},
		Probe: ProbeConfig{
			Timeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			Dir:        defaultCachePath(),
			ImageRange: 1000,
		},
		UI: UIConfig{
			ShowHelp: true,
			PageHint: true,
		},
		Logging: LoggingConfig{
			File:      defaultLogPath(),
			Level:     "INFO",
			MaxSizeMB: 10,
		},
	}
}

// ProbeURL returns the URL used for connectivity checks
func (c *Config) ProbeURL() string {
	if c.Probe.URL != "" {
		return c.Probe.URL
	}
	return c.Server.BaseURL
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url is required")
	}
	if c.Logging.MaxSizeMB < 0 {
		return fmt.Errorf("logging.max_size_mb must not be negative, got %d", c.Logging.MaxSizeMB)
	}
	if c.Cache.ImageRange < 2 {
		return fmt.Errorf("cache.image_range must be at least 2, got %d", c.Cache.ImageRange)
	}
	return nil
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "holocron", "holocron.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "holocron", "holocron.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "holocron")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "holocron")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "holocron", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "holocron", "cache")
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variable overrides (HOLOCRON_SERVER_BASE_URL, ...)
	v.SetEnvPrefix("HOLOCRON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about
	def := DefaultConfig()
	v.SetDefault("server.base_url", def.Server.BaseURL)
	v.SetDefault("server.timeout", def.Server.Timeout)
	v.SetDefault("probe.url", def.Probe.URL)
	v.SetDefault("probe.timeout", def.Probe.Timeout)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("cache.image_range", def.Cache.ImageRange)
	v.SetDefault("ui.show_help", def.UI.ShowHelp)
	v.SetDefault("ui.page_hint", def.UI.PageHint)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.max_size_mb", def.Logging.MaxSizeMB)
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration from an explicit file, or from the
// default search path when path is empty. A missing default file is not an error.
func LoadConfigFrom(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to dir/config.yaml, or the default config directory when dir is empty
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = defaultConfigPath()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.base_url", cfg.Server.BaseURL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("probe.url", cfg.Probe.URL)
	v.Set("probe.timeout", cfg.Probe.Timeout.String())
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.image_range", cfg.Cache.ImageRange)
	v.Set("ui.show_help", cfg.UI.ShowHelp)
	v.Set("ui.page_hint", cfg.UI.PageHint)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the default cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
