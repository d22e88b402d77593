package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/arbor/errors"
)

func TestLoadFromBytes(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		data := []byte(`
worktrees_folder: .sessions
default_agent: codex
settings_propagation: symlink
workflow_folders:
  - docs/workflows
repair_exclude_patterns:
  - "*.log"
`)
		cfg, err := LoadFromBytes(data)
		require.NoError(t, err)
		assert.Equal(t, ".sessions", cfg.WorktreesFolder)
		assert.Equal(t, "codex", cfg.DefaultAgent)
		assert.Equal(t, "symlink", cfg.SettingsPropagation)
		assert.Equal(t, []string{"docs/workflows"}, cfg.WorkflowFolders)
		assert.Equal(t, []string{"*.log"}, cfg.RepairExcludePatterns)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadFromBytes([]byte("{}"))
		require.NoError(t, err)
		assert.Equal(t, DefaultWorktreesFolder, cfg.WorktreesFolder)
		assert.Equal(t, "claude", cfg.DefaultAgent)
		assert.Equal(t, "copy", cfg.SettingsPropagation)
	})

	t.Run("invalid propagation mode", func(t *testing.T) {
		_, err := LoadFromBytes([]byte("settings_propagation: hardlink\n"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
	})

	t.Run("absolute worktrees folder", func(t *testing.T) {
		_, err := LoadFromBytes([]byte("worktrees_folder: /tmp/worktrees\n"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFromBytes([]byte("worktrees_folder: [unclosed\n"))
		require.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	configPath := filepath.Join(tmpDir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("default_agent: claude\n"), 0644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestLoadFrom_MissingConfigUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultWorktreesFolder, cfg.WorktreesFolder)
}

func TestUnmarshalExtension(t *testing.T) {
	data := []byte(`
extensions:
  logging:
    level: debug
    report_caller: true
`)
	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// Unknown extension decodes to zero value without error
	var other struct {
		Value string `yaml:"value"`
	}
	require.NoError(t, cfg.UnmarshalExtension("missing", &other))
	assert.Empty(t, other.Value)
}
