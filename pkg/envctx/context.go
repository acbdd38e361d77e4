// Package envctx builds the read-only RunContext handed to user scripts.
//
// The context maps a fixed set of names (HOME_DIR, SCRIPT_DIR, THEME_DIR,
// ICON_DIR, FONT_DIR, CONFIG_DIR) to canonical absolute paths. Every entry
// degrades independently to "absent" when its source is unset or does not
// exist on disk; building a context never fails.
package envctx

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/paths"
)

// Keys exposed to scripts through the env table
const (
	KeyHomeDir   = "HOME_DIR"
	KeyScriptDir = "SCRIPT_DIR"
	KeyThemeDir  = "THEME_DIR"
	KeyIconDir   = "ICON_DIR"
	KeyFontDir   = "FONT_DIR"
	KeyConfigDir = "CONFIG_DIR"
)

// Locations below HOME probed for the derived directories
const (
	ThemeSubdir  = ".themes"
	IconSubdir   = ".local/share/icons"
	FontSubdir   = ".local/share/fonts"
	ConfigSubdir = ".config"
)

// Keys lists the env table keys in their stable presentation order.
var Keys = []string{KeyHomeDir, KeyScriptDir, KeyThemeDir, KeyIconDir, KeyFontDir, KeyConfigDir}

// HomeLookup returns the raw home directory and whether it is set.
type HomeLookup func() (string, bool)

// EnvHome looks up $HOME.
func EnvHome() HomeLookup {
	return func() (string, bool) {
		home, ok := os.LookupEnv(paths.EnvHome)
		return home, ok && home != ""
	}
}

// StaticHome always returns dir; an empty dir means unset.
func StaticHome(dir string) HomeLookup {
	return func() (string, bool) {
		return dir, dir != ""
	}
}

// Entry is one key of the context with its resolved value.
type Entry struct {
	Key     string
	Value   string
	Present bool
}

// RunContext is built once per invocation and is immutable afterwards.
type RunContext struct {
	values     map[string]string
	scriptPath string
	update     bool
}

// Build probes the filesystem and returns the context for one run.
func Build(home HomeLookup, scriptPath string, update bool) *RunContext {
	logger := logging.GetLogger("envctx")

	ctx := &RunContext{
		values:     make(map[string]string, len(Keys)),
		scriptPath: scriptPath,
		update:     update,
	}

	var homeDir string
	if home != nil {
		if raw, ok := home(); ok {
			if resolved, err := paths.Canonicalize(raw); err == nil {
				homeDir = resolved
			} else {
				logger.Debug().Err(err).Str("home", raw).Msg("Home directory is not resolvable")
			}
		}
	}
	ctx.set(KeyHomeDir, homeDir)

	if scriptPath != "" {
		if resolved, err := paths.Canonicalize(scriptPath); err == nil {
			ctx.set(KeyScriptDir, filepath.Dir(resolved))
		} else {
			logger.Debug().Err(err).Str("script", scriptPath).Msg("Script path is not resolvable")
		}
	}

	ctx.set(KeyThemeDir, joinExisting(homeDir, ThemeSubdir))
	ctx.set(KeyIconDir, joinExisting(homeDir, IconSubdir))
	ctx.set(KeyFontDir, joinExisting(homeDir, FontSubdir))
	ctx.set(KeyConfigDir, joinExisting(homeDir, ConfigSubdir))

	logger.Debug().
		Int("present", len(ctx.values)).
		Bool("update", update).
		Msg("Run context built")

	return ctx
}

func joinExisting(base, sub string) string {
	if base == "" {
		return ""
	}
	resolved, err := paths.Canonicalize(filepath.Join(base, sub))
	if err != nil {
		return ""
	}
	return resolved
}

func (c *RunContext) set(key, value string) {
	if value != "" {
		c.values[key] = value
	}
}

// Lookup returns the value for key and whether it is present.
func (c *RunContext) Lookup(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Get returns a pointer to a copy of the value, or nil when absent.
func (c *RunContext) Get(key string) *string {
	v, ok := c.values[key]
	if !ok {
		return nil
	}
	return &v
}

// Entries returns every key in presentation order, including absent ones.
func (c *RunContext) Entries() []Entry {
	entries := make([]Entry, 0, len(Keys))
	for _, key := range Keys {
		v, ok := c.values[key]
		entries = append(entries, Entry{Key: key, Value: v, Present: ok})
	}
	return entries
}

// UpdateOnly reports whether existing destinations must never be overwritten.
func (c *RunContext) UpdateOnly() bool {
	return c.update
}

// ScriptPath returns the script path as given by the caller.
func (c *RunContext) ScriptPath() string {
	return c.scriptPath
}

// HomeDir returns the canonical home directory, or "" when absent.
func (c *RunContext) HomeDir() string {
	return c.values[KeyHomeDir]
}
