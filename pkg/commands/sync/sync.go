package sync

import (
	"path/filepath"

	"github.com/arthur-debert/envsync/pkg/bridge"
	"github.com/arthur-debert/envsync/pkg/config"
	"github.com/arthur-debert/envsync/pkg/desktop"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/filesystem"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/report"
	"github.com/arthur-debert/envsync/pkg/resolver"
	"github.com/arthur-debert/envsync/pkg/script"
	"github.com/arthur-debert/envsync/pkg/synchronizer"
	"github.com/arthur-debert/envsync/pkg/types"
)

// Options defines the options for Run.
type Options struct {
	// ScriptPath is the sync script to evaluate.
	ScriptPath string
	// UpdateOnly suppresses forced replacement of existing destinations.
	UpdateOnly bool
	// SettingsFile overrides the user settings file (optional)
	SettingsFile string
	// Config is already-loaded settings (optional). When set, SettingsFile
	// is ignored and nothing is loaded again.
	Config *config.Config

	// Reporter receives diagnostics (optional, defaults to discarding them)
	Reporter report.Reporter
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
	// Runner runs desktop setting commands (optional, defaults to os/exec)
	Runner desktop.Runner
	// Home looks up the home directory (optional, defaults to $HOME)
	Home envctx.HomeLookup
}

// Result describes a completed run.
type Result struct {
	// ScriptPath is the canonical script path
	ScriptPath string
	// Engine is the interpreter that ran the script
	Engine string
	// Summary totals every link applied during the run
	Summary synchronizer.Summary
	// ReturnedLinks reports whether the script returned a link list
	ReturnedLinks bool
}

// Run evaluates the script and applies its links.
func Run(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.sync")
	done := logging.LogOperationStart(log, "sync")
	defer done()

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Nop{}
	}
	home := opts.Home
	if home == nil {
		home = envctx.EnvHome()
	}

	scriptPath, source, err := readScript(fs, opts.ScriptPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("script", scriptPath).Bool("update", opts.UpdateOnly).Msg("Script loaded")

	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.Load(config.LoadOptions{
			SettingsFile: opts.SettingsFile,
			ScriptDir:    filepath.Dir(scriptPath),
		})
		if err != nil {
			return nil, err
		}
	}

	ctx := envctx.Build(home, scriptPath, opts.UpdateOnly)

	engine, err := script.New(scriptPath, cfg.Script.DefaultEngine)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	br := bridge.New(bridge.Deps{
		Resolver: resolver.New(),
		Synchronizer: synchronizer.New(fs, reporter,
			synchronizer.WithHome(ctx.HomeDir()),
			synchronizer.WithProtectedPaths(cfg.ProtectedRoots(ctx.HomeDir()))),
		Settings:   desktop.NewSettings(cfg.Desktop.Command, opts.Runner, reporter),
		Reporter:   reporter,
		UpdateOnly: ctx.UpdateOnly(),
	})

	if err := engine.Install(ctx, br); err != nil {
		if errors.IsFatal(err) {
			return nil, err
		}
		log.Warn().Err(err).Msg("Script globals partially installed")
		reporter.Failed(err)
	}

	returned, err := engine.Run(source)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ScriptPath: scriptPath,
		Engine:     engine.Name(),
	}
	if links, ok := script.LinkList(returned); ok {
		log.Debug().Int("links", len(links)).Msg("Script returned a link list")
		result.ReturnedLinks = true
		br.Linker(links)
	}
	result.Summary = br.Summary()

	log.Info().
		Str("engine", result.Engine).
		Str("summary", result.Summary.String()).
		Msg("Sync complete")
	return result, nil
}

func readScript(fs types.FS, path string) (string, string, error) {
	if path == "" {
		return "", "", errors.New(errors.ErrConfigNotFound, "no script given")
	}

	resolved, err := fs.Canonicalize(path)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrConfigNotFound, "script %s not found", path).
			WithDetail("path", path)
	}

	data, err := fs.ReadFile(resolved)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrConfigNotFound, "cannot read script %s", path).
			WithDetail("path", path)
	}
	return resolved, string(data), nil
}
