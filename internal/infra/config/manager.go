package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	localPath     string // Path to the local config file
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskboard)
}

// NewManager creates a new Manager.
func NewManager(localPath string) *Manager {
	return &Manager{
		localPath:     localPath,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(localPath, globalConfDir string) *Manager {
	return &Manager{
		localPath:     localPath,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(m.localPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.GlobalConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	if path == "" {
		return domain.ConfigInfo{}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig writes cfg to the local config file.
func (m *Manager) InitLocalConfig(cfg *domain.Config) error {
	if m.localPath == "" {
		return errors.New("local config path not set")
	}
	return m.initConfig(m.localPath, cfg)
}

// InitGlobalConfig writes cfg to the global config file.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}

	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}

	return m.initConfig(filepath.Join(m.globalConfDir, domain.GlobalConfigFileName), cfg)
}

// initConfig creates a config file unless one exists.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	content, err := Render(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0o600)
}

// Render encodes cfg as TOML.
func Render(cfg *domain.Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
