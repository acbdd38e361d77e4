package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/envsync/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvConfigDir overrides the XDG config directory for envsync
	EnvConfigDir = "ENVSYNC_CONFIG_DIR"
)

const (
	// AppDirName is the directory name for envsync-specific files
	AppDirName = "envsync"

	// ConfigFileName is the name of the tool configuration file
	ConfigFileName = "config.toml"

	// EnvFileName is the dotenv file looked up next to the user script
	EnvFileName = ".env"
)

// Canonicalize returns the absolute, symlink-free form of path.
// It fails if the path (or any of its components) does not exist.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// GetHomeDirectory returns the user's home directory.
// It first tries the HOME environment variable, then os.UserHomeDir().
func GetHomeDirectory() (string, error) {
	if homeDir := os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrInvalidInput, "unable to determine home directory: neither HOME nor os.UserHomeDir() are available")
}

// ExpandHome expands a leading ~ to the home directory.
// Paths it cannot expand are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}
	return ExpandHomeDir(path, homeDir)
}

// ExpandHomeDir expands a leading ~ to homeDir. With an empty homeDir, or
// for ~user forms, path is returned unchanged.
func ExpandHomeDir(path, homeDir string) string {
	if path == "" || path[0] != '~' || homeDir == "" {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// IsWithin reports whether path is root or lies below it.
// Both paths are cleaned but not canonicalized.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ConfigDir returns the envsync configuration directory, honoring
// ENVSYNC_CONFIG_DIR before XDG_CONFIG_HOME.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFilePath returns the default tool configuration file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}
