package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envsync/pkg/filesystem"
	"github.com/arthur-debert/envsync/pkg/types"
)

// TestEnvironment is a real filesystem sandbox in a temp directory.
type TestEnvironment struct {
	// Root holds every other directory
	Root string
	// HomeDir is exported as HOME
	HomeDir string
	// ScriptDir is where test scripts and their sources live
	ScriptDir string
	// ConfigDir is exported as ENVSYNC_CONFIG_DIR
	ConfigDir string

	FS types.FS

	t *testing.T
}

// NewTestEnvironment creates the sandbox and points HOME, XDG_CONFIG_HOME,
// XDG_STATE_HOME and ENVSYNC_CONFIG_DIR into it.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	// resolve the temp dir so canonicalized paths compare equal
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	env := &TestEnvironment{
		Root:      root,
		HomeDir:   filepath.Join(root, "home"),
		ScriptDir: filepath.Join(root, "dotfiles"),
		ConfigDir: filepath.Join(root, "config", "envsync"),
		FS:        filesystem.NewOS(),
		t:         t,
	}

	for _, dir := range []string{env.HomeDir, env.ScriptDir, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("ENVSYNC_CONFIG_DIR", env.ConfigDir)

	return env
}

// Home returns the absolute path of rel inside the home directory.
func (env *TestEnvironment) Home(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// Source returns the absolute path of rel inside the script directory.
func (env *TestEnvironment) Source(rel string) string {
	return filepath.Join(env.ScriptDir, rel)
}

// HomeFile writes a file below the home directory.
func (env *TestEnvironment) HomeFile(rel, content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.HomeDir, rel, content)
}

// HomeDirectory creates a directory below the home directory.
func (env *TestEnvironment) HomeDirectory(rel string) string {
	env.t.Helper()
	return CreateDir(env.t, env.HomeDir, rel)
}

// SourceFile writes a file below the script directory.
func (env *TestEnvironment) SourceFile(rel, content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.ScriptDir, rel, content)
}

// SourceDirectory creates a directory below the script directory.
func (env *TestEnvironment) SourceDirectory(rel string) string {
	env.t.Helper()
	return CreateDir(env.t, env.ScriptDir, rel)
}

// Script writes a sync script into the script directory and returns its
// path.
func (env *TestEnvironment) Script(name, content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.ScriptDir, name, content)
}

// Settings writes the user settings file.
func (env *TestEnvironment) Settings(content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.ConfigDir, "config.toml", content)
}
