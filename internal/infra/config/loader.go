// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file configuration.
const (
	EnvPort           = "PORT"
	EnvFrontendOrigin = "FRONTEND_ORIGIN"
	EnvDataPath       = "TASKBOARD_DATA"
	EnvLogLevel       = "TASKBOARD_LOG_LEVEL"
)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	localPath     string // Path to the local config file (e.g., ./taskboard.toml)
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskboard)
	requireLocal  bool   // Fail when the local file is missing
}

// NewLoader creates a new Loader reading localPath and the default global config.
func NewLoader(localPath string) *Loader {
	return &Loader{
		localPath:     localPath,
		globalConfDir: DefaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(localPath, globalConfDir string) *Loader {
	return &Loader{
		localPath:     localPath,
		globalConfDir: globalConfDir,
		getenv:        os.Getenv,
	}
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// RequireLocal makes a missing local file an error.
// Used when the path was given explicitly with --config.
func (l *Loader) RequireLocal() *Loader {
	l.requireLocal = true
	return l
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: default <- global <- local <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.LoadLocal()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || l.requireLocal {
			return nil, err
		}
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}
	l.applyEnv(base)

	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.GlobalConfigFileName))
}

// LoadLocal returns only the local configuration.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	if l.localPath == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(l.localPath)
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// applyEnv overrides cfg with the supported environment variables.
func (l *Loader) applyEnv(cfg *domain.Config) {
	if port := strings.TrimSpace(l.getenv(EnvPort)); port != "" {
		if strings.Contains(port, ":") {
			cfg.Server.Addr = port
		} else if n, err := strconv.Atoi(port); err == nil && n >= 0 && n <= 65535 {
			cfg.Server.Addr = ":" + port
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring invalid %s: %q", EnvPort, port))
		}
	}
	if origin := l.getenv(EnvFrontendOrigin); origin != "" {
		cfg.Server.FrontendOrigin = origin
	}
	if path := l.getenv(EnvDataPath); path != "" {
		cfg.Store.Path = path
	}
	if level := l.getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						res.Server.Addr = s
					}
				case "frontend_origin":
					if s, ok := v.(string); ok {
						res.Server.FrontendOrigin = s
					}
				case "body_limit":
					if n, ok := toInt(v); ok {
						res.Server.BodyLimit = int64(n)
					}
				case "rate_limit":
					if n, ok := toInt(v); ok {
						res.Server.RateLimit = n
					}
				case "rate_window_seconds":
					if n, ok := toInt(v); ok {
						res.Server.RateWindowSeconds = n
					}
				case "shutdown_timeout_seconds":
					if n, ok := toInt(v); ok {
						res.Server.ShutdownTimeoutSeconds = n
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [server]: %s", k))
				}
			}
		case "store":
			for k, v := range m {
				switch k {
				case "path":
					if s, ok := v.(string); ok {
						res.Store.Path = s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				case "dir":
					if s, ok := v.(string); ok {
						res.Log.Dir = s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// toInt accepts the integer types go-toml produces for a generic map.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Server:   base.Server,
		Store:    base.Store,
		Log:      base.Log,
		Warnings: slices.Concat(base.Warnings, override.Warnings),
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.FrontendOrigin != "" {
		result.Server.FrontendOrigin = override.Server.FrontendOrigin
	}
	if override.Server.BodyLimit > 0 {
		result.Server.BodyLimit = override.Server.BodyLimit
	}
	if override.Server.RateLimit > 0 {
		result.Server.RateLimit = override.Server.RateLimit
	}
	if override.Server.RateWindowSeconds > 0 {
		result.Server.RateWindowSeconds = override.Server.RateWindowSeconds
	}
	if override.Server.ShutdownTimeoutSeconds > 0 {
		result.Server.ShutdownTimeoutSeconds = override.Server.ShutdownTimeoutSeconds
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.Dir != "" {
		result.Log.Dir = override.Log.Dir
	}

	return result
}
