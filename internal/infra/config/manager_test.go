package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetConfigInfo(t *testing.T) {
	// Setup
	localPath := filepath.Join(t.TempDir(), domain.ConfigFileName)
	globalDir := t.TempDir()
	writeFile(t, localPath, "[log]\nlevel = \"debug\"\n")
	m := NewManagerWithGlobalDir(localPath, globalDir)

	// Execute
	local := m.GetLocalConfigInfo()
	global := m.GetGlobalConfigInfo()

	// Assert
	assert.True(t, local.Exists)
	assert.Equal(t, localPath, local.Path)
	assert.Contains(t, local.Content, "debug")

	assert.False(t, global.Exists)
	assert.Equal(t, filepath.Join(globalDir, domain.GlobalConfigFileName), global.Path)
}

func TestManager_GetGlobalConfigInfo_NoDir(t *testing.T) {
	m := NewManagerWithGlobalDir("", "")

	assert.Equal(t, domain.ConfigInfo{}, m.GetGlobalConfigInfo())
	assert.Equal(t, domain.ConfigInfo{}, m.GetLocalConfigInfo())
}

func TestManager_InitLocalConfig(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), domain.ConfigFileName)
	m := NewManagerWithGlobalDir(localPath, t.TempDir())

	require.NoError(t, m.InitLocalConfig(domain.NewDefaultConfig()))

	// The written file loads back to the defaults
	cfg, err := NewLoaderWithGlobalDir(localPath, t.TempDir()).WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)

	// Second init refuses to overwrite
	err = m.InitLocalConfig(domain.NewDefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_InitGlobalConfig(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "taskboard")
	m := NewManagerWithGlobalDir("", globalDir)

	require.NoError(t, m.InitGlobalConfig(domain.NewDefaultConfig()))

	content, err := os.ReadFile(filepath.Join(globalDir, domain.GlobalConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[server]")
	assert.Regexp(t, `addr = ["']:3000["']`, string(content))
}

func TestRender(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = []string{"not rendered"}

	data, err := Render(cfg)

	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "[store]")
	assert.Regexp(t, `path = ["']data\.json["']`, text)
	assert.NotContains(t, text, "not rendered")
	assert.NotContains(t, text, "dir =") // Empty log dir omitted
}
