package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the settings lookup at an empty directory and clears
// every variable the loader reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	for _, key := range []string{
		"ENVSYNC_DESKTOP_COMMAND",
		"ENVSYNC_SYMLINK_PROTECTED_PATHS",
		"ENVSYNC_SCRIPT_DEFAULT_ENGINE",
		"ENVSYNC_OUTPUT_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "dconf", cfg.Desktop.Command)
	assert.Equal(t, EngineLua, cfg.Script.DefaultEngine)
	assert.Equal(t, FormatAuto, cfg.Output.Format)
	assert.Equal(t, []string{".ssh", ".gnupg", ".password-store"}, cfg.Symlink.ProtectedPaths)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UserSettingsFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, paths.ConfigFileName), `
[desktop]
command = "/usr/local/bin/dconf"

[symlink]
protected_paths = [".kube"]
`)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/dconf", cfg.Desktop.Command)
	assert.Equal(t, []string{".kube"}, cfg.Symlink.ProtectedPaths)
	// untouched sections keep their defaults
	assert.Equal(t, EngineLua, cfg.Script.DefaultEngine)
}

func TestLoad_ExplicitSettingsFile(t *testing.T) {
	isolate(t)

	t.Run("loads the given file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		writeFile(t, path, "[output]\nformat = \"text\"\n")

		cfg, err := Load(LoadOptions{SettingsFile: path})
		require.NoError(t, err)
		assert.Equal(t, FormatText, cfg.Output.Format)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(LoadOptions{SettingsFile: filepath.Join(t.TempDir(), "nope.toml")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		writeFile(t, path, "[output\nformat=")

		_, err := Load(LoadOptions{SettingsFile: path})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestLoad_DotenvLayer(t *testing.T) {
	isolate(t)
	scriptDir := t.TempDir()
	writeFile(t, filepath.Join(scriptDir, paths.EnvFileName), `
ENVSYNC_SCRIPT_DEFAULT_ENGINE=js
ENVSYNC_OUTPUT_FORMAT=term
UNRELATED=1
`)

	t.Run("applies script-local settings", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ScriptDir: scriptDir})
		require.NoError(t, err)
		assert.Equal(t, EngineJS, cfg.Script.DefaultEngine)
		assert.Equal(t, FormatTerm, cfg.Output.Format)
		_, leaked := os.LookupEnv("UNRELATED")
		assert.False(t, leaked, "dotenv must not modify the process environment")
	})

	t.Run("real environment wins", func(t *testing.T) {
		t.Setenv("ENVSYNC_OUTPUT_FORMAT", "text")
		cfg, err := Load(LoadOptions{ScriptDir: scriptDir})
		require.NoError(t, err)
		assert.Equal(t, FormatText, cfg.Output.Format)
		assert.Equal(t, EngineJS, cfg.Script.DefaultEngine)
	})
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, paths.ConfigFileName), "[desktop]\ncommand = \"from-file\"\n")

	t.Setenv("ENVSYNC_DESKTOP_COMMAND", "from-env")
	t.Setenv("ENVSYNC_SYMLINK_PROTECTED_PATHS", ".ssh,.aws")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Desktop.Command)
	assert.Equal(t, []string{".ssh", ".aws"}, cfg.Symlink.ProtectedPaths)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown engine", "ENVSYNC_SCRIPT_DEFAULT_ENGINE", "python"},
		{"unknown format", "ENVSYNC_OUTPUT_FORMAT", "html"},
		{"blank command", "ENVSYNC_DESKTOP_COMMAND", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(LoadOptions{})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "desktop.command", envKey("ENVSYNC_DESKTOP_COMMAND"))
	assert.Equal(t, "symlink.protected_paths", envKey("ENVSYNC_SYMLINK_PROTECTED_PATHS"))
	assert.Equal(t, "script.default_engine", envKey("ENVSYNC_SCRIPT_DEFAULT_ENGINE"))
}
