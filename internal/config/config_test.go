package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffpatch/diffpatch/internal/config"
)

// Env vars make these tests order-sensitive; no t.Parallel here.

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DIFFPATCH_CONTEXT_LEN", "DIFFPATCH_INTERFACE",
		"DIFFPATCH_IMMEDIATE_COMMAND", "DIFFPATCH_EDITOR",
	} {
		t.Setenv(key, "")
	}
	// Point the default config file into an empty directory.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestParseInterface(t *testing.T) {
	cases := map[string]config.Interface{
		"direct":       config.InterfaceDirect,
		"fullscreen":   config.InterfaceFullscreen,
		"inline-clear": config.InterfaceInlineClear,
	}
	for name, want := range cases {
		got, err := config.ParseInterface(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := config.ParseInterface("curses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "curses")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		opts, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, 3, opts.ContextLen)
		assert.Equal(t, config.InterfaceDirect, opts.Interface)
		assert.False(t, opts.ImmediateCommand)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DIFFPATCH_CONTEXT_LEN", "5")
		t.Setenv("DIFFPATCH_INTERFACE", "inline-clear")
		t.Setenv("DIFFPATCH_IMMEDIATE_COMMAND", "yes")
		t.Setenv("DIFFPATCH_EDITOR", "nano")

		opts, err := config.Load("")

		require.NoError(t, err)
		assert.Equal(t, 5, opts.ContextLen)
		assert.Equal(t, config.InterfaceInlineClear, opts.Interface)
		assert.True(t, opts.ImmediateCommand)
		assert.Equal(t, "nano", opts.Editor)
	})

	t.Run("boolean words", func(t *testing.T) {
		for word, want := range map[string]bool{
			"yes": true, "y": true, "1": true, "true": true,
			"no": false, "n": false, "0": false, "false": false,
		} {
			clearEnv(t)
			t.Setenv("DIFFPATCH_IMMEDIATE_COMMAND", word)
			opts, err := config.Load("")
			require.NoError(t, err, "word %q", word)
			assert.Equal(t, want, opts.ImmediateCommand, "word %q", word)
		}
	})

	t.Run("invalid boolean is an error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DIFFPATCH_IMMEDIATE_COMMAND", "maybe")
		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIFFPATCH_IMMEDIATE_COMMAND")
	})

	t.Run("invalid interface is an error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DIFFPATCH_INTERFACE", "gui")
		_, err := config.Load("")
		assert.Error(t, err)
	})

	t.Run("invalid context length is an error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DIFFPATCH_CONTEXT_LEN", "three")
		_, err := config.Load("")
		assert.Error(t, err)
	})

	t.Run("negative context length is an error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DIFFPATCH_CONTEXT_LEN", "-1")
		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-negative")
	})

	t.Run("config file values are read", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := "context_len = 7\ninterface = \"fullscreen\"\nimmediate_command = true\neditor = \"emacs\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		opts, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, 7, opts.ContextLen)
		assert.Equal(t, config.InterfaceFullscreen, opts.Interface)
		assert.True(t, opts.ImmediateCommand)
		assert.Equal(t, "emacs", opts.Editor)
	})

	t.Run("environment beats the config file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("context_len = 7\n"), 0o644))
		t.Setenv("DIFFPATCH_CONTEXT_LEN", "1")

		opts, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, 1, opts.ContextLen)
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		clearEnv(t)
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("default config file location honors XDG_CONFIG_HOME", func(t *testing.T) {
		clearEnv(t)
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		cfgDir := filepath.Join(xdg, "diffpatch")
		require.NoError(t, os.MkdirAll(cfgDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("context_len = 9\n"), 0o644))

		opts, err := config.Load("")

		require.NoError(t, err)
		assert.Equal(t, 9, opts.ContextLen)
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("context_len = [oops\n"), 0o644))
		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
