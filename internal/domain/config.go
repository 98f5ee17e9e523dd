package domain

import (
	"path/filepath"
	"time"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "taskboard.toml"

// GlobalConfigFileName is the name of the configuration file in the global config directory.
const GlobalConfigFileName = "config.toml"

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Server   ServerConfig `toml:"server"`
	Store    StoreConfig  `toml:"store"`
	Log      LogConfig    `toml:"log"`
}

// ServerConfig holds HTTP settings from [server] section.
type ServerConfig struct {
	Addr                   string `toml:"addr,omitempty"`                     // Listen address (PORT env overrides)
	FrontendOrigin         string `toml:"frontend_origin,omitempty"`          // Allowed CORS origin, "*" reflects the caller
	BodyLimit              int64  `toml:"body_limit,omitempty"`               // Maximum JSON body size in bytes
	RateLimit              int    `toml:"rate_limit,omitempty"`               // Requests allowed per client per window
	RateWindowSeconds      int    `toml:"rate_window_seconds,omitempty"`      // Rate limit window
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds,omitempty"` // Graceful shutdown deadline
}

// RateWindow returns the rate limit window as a duration.
func (c ServerConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// StoreConfig holds settings for task storage from [store] section.
type StoreConfig struct {
	Path string `toml:"path,omitempty"` // Path to the JSON data file
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	Dir   string `toml:"dir,omitempty"`   // Directory for file logs (empty = disabled)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                   ":3000",
			FrontendOrigin:         "*",
			BodyLimit:              200 * 1024,
			RateLimit:              120,
			RateWindowSeconds:      60,
			ShutdownTimeoutSeconds: 10,
		},
		Store: StoreConfig{
			Path: "data.json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ResolvePaths makes relative store and log paths absolute against baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	if c.Store.Path != "" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(baseDir, c.Store.Path)
	}
	if c.Log.Dir != "" && !filepath.IsAbs(c.Log.Dir) {
		c.Log.Dir = filepath.Join(baseDir, c.Log.Dir)
	}
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string // File path (empty if unavailable)
	Content string // File content when it exists
	Exists  bool   // Whether the file exists
}
