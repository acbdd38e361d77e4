// Package envsync wires the envsync command line.
package envsync

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/envsync/internal/version"
	"github.com/arthur-debert/envsync/pkg/cobrax/topics"
	synccmd "github.com/arthur-debert/envsync/pkg/commands/sync"
	"github.com/arthur-debert/envsync/pkg/config"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/paths"
	"github.com/arthur-debert/envsync/pkg/report"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

type rootOptions struct {
	script    string
	update    bool
	verbosity int
	format    string
	settings  string
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "envsync",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log := logging.GetLogger("cmd")
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.script, "config", "c", "", MsgFlagConfig)
	flags.BoolVarP(&opts.update, "update", "u", false, MsgFlagUpdate)
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.format, "format", "", MsgFlagFormat)
	flags.StringVar(&opts.settings, "settings", "", MsgFlagSettings)

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"lua", "js", "mjs"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newEnvCmd(opts))

	installTopics(rootCmd)

	return rootCmd
}

func installTopics(rootCmd *cobra.Command) {
	manager, err := topics.Load(topicFiles, "topics", topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})
	if err != nil {
		log := logging.GetLogger("cmd")
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	manager.Install(rootCmd)
}

func runSync(cmd *cobra.Command, opts *rootOptions) error {
	log := logging.GetLogger("cmd.sync")

	if opts.script == "" {
		return errors.New(errors.ErrConfigNotFound, MsgErrNoScript)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, opts, cfg)
	if err != nil {
		return err
	}

	result, err := synccmd.Run(synccmd.Options{
		ScriptPath: opts.script,
		UpdateOnly: opts.update,
		Config:     cfg,
		Reporter:   report.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), format),
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("script", result.ScriptPath).
		Str("engine", result.Engine).
		Str("summary", result.Summary.String()).
		Msg("Sync finished")
	return nil
}

// outputFormat prefers --format and falls back to output.format from the
// settings.
func outputFormat(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) (report.Format, error) {
	value := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		value = opts.format
	}

	format, err := report.ParseFormat(value)
	if err != nil {
		return report.FormatAuto, errors.Wrap(err, errors.ErrInvalidInput, "invalid output format").
			WithDetail("format", value)
	}
	return format, nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		SettingsFile: opts.settings,
		ScriptDir:    scriptDir(opts.script),
	})
}

// scriptDir is the directory of the script, or "" when it does not resolve.
func scriptDir(script string) string {
	if script == "" {
		return ""
	}
	resolved, err := paths.Canonicalize(script)
	if err != nil {
		return ""
	}
	return filepath.Dir(resolved)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newEnvCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: MsgEnvShort,
		Long:  MsgEnvLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := envctx.Build(envctx.EnvHome(), opts.script, opts.update)
			writeEnv(cmd.OutOrStdout(), ctx)
		},
	}
}

func writeEnv(out io.Writer, ctx *envctx.RunContext) {
	for _, entry := range ctx.Entries() {
		value := MsgEnvAbsent
		if entry.Present {
			value = entry.Value
		}
		_, _ = fmt.Fprintf(out, MsgEnvEntry, entry.Key, value)
	}
}

// PrintError writes a fatal error as one line, styled when format is
// FormatTerminal.
func PrintError(out io.Writer, format report.Format, err error) {
	msg := fmt.Sprintf(MsgErrorFormat, errors.Describe(err))
	if format == report.FormatTerminal {
		msg = report.DefaultStyles().Get("Failed").Render(msg)
	}
	_, _ = fmt.Fprintln(out, msg)
}
