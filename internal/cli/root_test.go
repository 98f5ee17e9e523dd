package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/config"
	"github.com/runoshun/taskboard/internal/testutil"
)

func TestNewRootCommand_Version(t *testing.T) {
	container, _ := newTestContainer(t)
	root := NewRootCommand(container, "test-version")

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "test-version")
}

func TestNewRootCommand_Groups(t *testing.T) {
	container, _ := newTestContainer(t)
	root := NewRootCommand(container, "dev")

	groups := map[string]string{}
	for _, cmd := range root.Commands() {
		groups[cmd.Name()] = cmd.GroupID
	}

	assert.Equal(t, groupSetup, groups["init"])
	assert.Equal(t, groupSetup, groups["serve"])
	assert.Equal(t, groupSetup, groups["config"])
	for _, name := range []string{"new", "list", "show", "edit", "delete"} {
		assert.Equal(t, groupTask, groups[name], name)
	}
}

func TestNewRootCommand_GlobalFlagsAccepted(t *testing.T) {
	// Setup
	container, store := newTestContainer(t)
	root := NewRootCommand(container, "dev")

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--data", "ignored.json", "new", "--title", "From root"})

	// Execute
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Created task #1")
	assert.Len(t, store.Current().Tasks, 1)
}

func TestGlobalOptions(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig string
		wantData   string
	}{
		{"none", []string{"list"}, "", ""},
		{"before command", []string{"--config", "a.toml", "list"}, "a.toml", ""},
		{"after command", []string{"list", "--json", "--data=tasks.json"}, "", "tasks.json"},
		{"with unknown flags", []string{"new", "--title", "Hello", "--config", "b.toml", "--priority", "low"}, "b.toml", ""},
		{"help", []string{"--help"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := GlobalOptions(tt.args)
			assert.Equal(t, tt.wantConfig, opts.ConfigPath)
			assert.Equal(t, tt.wantData, opts.DataPath)
		})
	}
}

// =============================================================================
// Init Command Tests
// =============================================================================

func TestNewInitCommand(t *testing.T) {
	// Setup
	container, _ := newTestContainer(t)
	storeInit := &testutil.MockStoreInitializer{}
	container.StoreInitializer = storeInit

	// Execute
	out, err := runCommand(t, newInitCommand, container)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Initialized task store at /srv/taskboard/data.json\n", out)
	assert.True(t, storeInit.Initialized)

	out, err = runCommand(t, newInitCommand, container)
	require.NoError(t, err)
	assert.Equal(t, "Task store already exists at /srv/taskboard/data.json\n", out)
}

func TestNewInitCommand_Error(t *testing.T) {
	container, _ := newTestContainer(t)
	container.StoreInitializer = &testutil.MockStoreInitializer{InitializeErr: assert.AnError}

	_, err := runCommand(t, newInitCommand, container)

	assert.ErrorIs(t, err, assert.AnError)
}

// =============================================================================
// Config Command Tests
// =============================================================================

func TestNewConfigCommand_ShowsEffectiveConfig(t *testing.T) {
	// Setup
	dir := t.TempDir()
	container, _ := newTestContainer(t)
	container.ConfigManager = config.NewManagerWithGlobalDir(filepath.Join(dir, domain.ConfigFileName), "")
	container.AppConfig.Server.RateLimit = 30

	// Execute
	out, err := runCommand(t, newConfigCommand, container)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, filepath.Join(dir, domain.ConfigFileName)+" (not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[server]")
	assert.Contains(t, out, "rate_limit = 30")
}

func TestNewConfigCommand_ShowsWarnings(t *testing.T) {
	// Setup
	dir := t.TempDir()
	localPath := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(localPath, []byte("[server]\nport = 1\n"), 0o600))
	container, _ := newTestContainer(t)
	container.ConfigLoader = config.NewLoaderWithGlobalDir(localPath, "").WithEnv(func(string) string { return "" })

	// Execute
	out, err := runCommand(t, newConfigCommand, container, "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[Warnings]")
	assert.Contains(t, out, "- unknown key in [server]: port")
}

func TestNewConfigCommand_WithoutManager(t *testing.T) {
	container, _ := newTestContainer(t)

	out, err := runCommand(t, newConfigCommand, container, "show")

	require.NoError(t, err)
	assert.NotContains(t, out, "[Loaded from]")
	assert.Contains(t, out, "[store]")
}

func TestNewConfigInitCommand(t *testing.T) {
	// Setup
	dir := t.TempDir()
	localPath := filepath.Join(dir, domain.ConfigFileName)
	globalDir := filepath.Join(dir, "global")
	container, _ := newTestContainer(t)
	container.ConfigManager = config.NewManagerWithGlobalDir(localPath, globalDir)

	// Execute
	out, err := runCommand(t, newConfigCommand, container, "init")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Created config file: "+localPath+"\n", out)
	assert.FileExists(t, localPath)

	_, err = runCommand(t, newConfigCommand, container, "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)

	out, err = runCommand(t, newConfigCommand, container, "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(globalDir, domain.GlobalConfigFileName))
	assert.FileExists(t, filepath.Join(globalDir, domain.GlobalConfigFileName))
}
