package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "ENVSYNC_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("not implemented")
}

// dotenvProvider reads ENVSYNC_ keys from a .env file without touching the
// process environment.
type dotenvProvider struct{ path string }

func (d *dotenvProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func (d *dotenvProvider) Read() (map[string]interface{}, error) {
	vars, err := godotenv.Read(d.path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{})
	for k, v := range vars {
		if !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(envKey(k), ".")
		if !ok {
			continue
		}
		sub, _ := out[section].(map[string]interface{})
		if sub == nil {
			sub = make(map[string]interface{})
			out[section] = sub
		}
		sub[key] = v
	}
	return out, nil
}

// envKey maps ENVSYNC_SYMLINK_PROTECTED_PATHS to symlink.protected_paths.
// Only the first underscore separates section from key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// LoadOptions selects the optional layers.
type LoadOptions struct {
	// SettingsFile overrides the default user settings location. An explicit
	// file must exist.
	SettingsFile string
	// ScriptDir is searched for a .env file. Empty skips the layer.
	ScriptDir string
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := load(koanf.New("."), LoadOptions{}, false)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	return load(koanf.New("."), opts, true)
}

func load(k *koanf.Koanf, opts LoadOptions, layered bool) (*Config, error) {
	logger := logging.GetLogger("config")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if layered {
		// 2. User settings file
		settingsPath, explicit := opts.SettingsFile, true
		if settingsPath == "" {
			settingsPath, explicit = paths.ConfigFilePath(), false
		}
		if _, err := os.Stat(settingsPath); err == nil {
			if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load settings from %s", settingsPath).
					WithDetail("path", settingsPath)
			}
			logger.Debug().Str("path", settingsPath).Msg("Loaded settings file")
		} else if explicit {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "settings file %s not found", settingsPath).
				WithDetail("path", settingsPath)
		}

		// 3. .env next to the script
		if opts.ScriptDir != "" {
			envPath := filepath.Join(opts.ScriptDir, paths.EnvFileName)
			if _, err := os.Stat(envPath); err == nil {
				if err := k.Load(&dotenvProvider{path: envPath}, nil); err != nil {
					return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", envPath).
						WithDetail("path", envPath)
				}
				logger.Debug().Str("path", envPath).Msg("Loaded dotenv file")
			}
		}

		// 4. Environment variables
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("desktop_command", cfg.Desktop.Command).
		Str("default_engine", cfg.Script.DefaultEngine).
		Str("format", cfg.Output.Format).
		Strs("protected_paths", cfg.Symlink.ProtectedPaths).
		Msg("Configuration loaded")

	return &cfg, nil
}
