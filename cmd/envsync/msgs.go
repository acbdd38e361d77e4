package envsync

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Synchronize dotfile links and desktop settings from a script"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgConfigShort     = "Print the effective settings"
	MsgEnvShort        = "Print the env table seen by scripts"

	// Output
	MsgVersionFormat = "envsync version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"
	MsgEnvEntry      = "%-10s = %s\n"
	MsgEnvAbsent     = "nil"
	MsgErrorFormat   = "Error: %s"

	// Errors
	MsgErrNoScript = "no sync script given, use --config <path>"

	// Flag descriptions
	MsgFlagConfig   = "Sync script to evaluate (.lua or .js)"
	MsgFlagUpdate   = "Update only: never replace existing destinations"
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format: auto, term or text"
	MsgFlagSettings = "envsync settings file (default $XDG_CONFIG_HOME/envsync/config.toml)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/env-long.txt
	msgEnvLongRaw string
	MsgEnvLong    = strings.TrimSpace(msgEnvLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)
)
