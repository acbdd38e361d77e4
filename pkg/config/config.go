package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Known values for Script.DefaultEngine
const (
	EngineLua = "lua"
	EngineJS  = "js"
)

// Known values for Output.Format
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
)

// Config is the effective tool configuration.
type Config struct {
	Desktop Desktop `koanf:"desktop" toml:"desktop"`
	Symlink Symlink `koanf:"symlink" toml:"symlink"`
	Script  Script  `koanf:"script" toml:"script"`
	Output  Output  `koanf:"output" toml:"output"`
}

// Desktop configures desktop setting writes.
type Desktop struct {
	Command string `koanf:"command" toml:"command"`
}

// Symlink configures link synchronization.
type Symlink struct {
	ProtectedPaths []string `koanf:"protected_paths" toml:"protected_paths"`
}

// Script configures script evaluation.
type Script struct {
	DefaultEngine string `koanf:"default_engine" toml:"default_engine"`
}

// Output configures diagnostics rendering.
type Output struct {
	Format string `koanf:"format" toml:"format"`
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Desktop.Command) == "" {
		return errors.New(errors.ErrConfigLoad, "desktop.command must not be empty")
	}
	switch c.Script.DefaultEngine {
	case EngineLua, EngineJS:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown script.default_engine %q (want lua or js)", c.Script.DefaultEngine).
			WithDetail("value", c.Script.DefaultEngine)
	}
	switch c.Output.Format {
	case FormatAuto, FormatTerm, FormatText:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown output.format %q (want auto, term or text)", c.Output.Format).
			WithDetail("value", c.Output.Format)
	}
	return nil
}

// ProtectedRoots resolves the protected paths against home. Relative
// entries are dropped when home is empty.
func (c *Config) ProtectedRoots(home string) []string {
	roots := make([]string, 0, len(c.Symlink.ProtectedPaths))
	for _, p := range c.Symlink.ProtectedPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			roots = append(roots, filepath.Clean(p))
			continue
		}
		if home == "" {
			continue
		}
		roots = append(roots, filepath.Join(home, p))
	}
	return roots
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
