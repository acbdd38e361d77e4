// Package desktop writes desktop appearance settings through an external
// settings command (dconf by default).
//
// Every write is one blocking command invocation of the form
//
//	<command> write <key> '<value>'
//
// with no retries and no state kept between calls.
package desktop

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/report"
	"github.com/rs/zerolog"
)

// Setting keys
const (
	KeyFont          = "/org/gnome/desktop/interface/font-name"
	KeyMonospaceFont = "/org/gnome/desktop/interface/monospace-font-name"
	KeyGtkTheme      = "/org/gnome/desktop/interface/gtk-theme"
	KeyIconTheme     = "/org/gnome/desktop/interface/icon-theme"
)

// DefaultCommand is the settings command used when none is configured.
const DefaultCommand = "dconf"

// Settings writes appearance settings.
type Settings struct {
	command  string
	runner   Runner
	reporter report.Reporter
	logger   zerolog.Logger
}

// NewSettings creates a settings writer. Empty command means DefaultCommand,
// nil runner means NewExecRunner and nil reporter discards events.
func NewSettings(command string, runner Runner, reporter report.Reporter) *Settings {
	if command == "" {
		command = DefaultCommand
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Settings{
		command:  command,
		runner:   runner,
		reporter: reporter,
		logger:   logging.GetLogger("desktop"),
	}
}

// Write stores value under key.
func (s *Settings) Write(key, value string) error {
	s.reporter.Setting(key, value)
	s.logger.Info().Str("key", key).Str("value", value).Msg("Writing desktop setting")

	if err := s.runner.Run(s.command, "write", key, Quote(value)); err != nil {
		return errors.Wrapf(err, errors.ErrCommandFailed, "failed to set %s", key).
			WithDetail("key", key).
			WithDetail("value", value)
	}
	return nil
}

// SetFont sets the interface font.
func (s *Settings) SetFont(family string, size float64) error {
	return s.Write(KeyFont, FontValue(family, size))
}

// SetFontMonospace sets the monospace font.
func (s *Settings) SetFontMonospace(family string, size float64) error {
	return s.Write(KeyMonospaceFont, FontValue(family, size))
}

// SetGtkTheme sets the GTK theme.
func (s *Settings) SetGtkTheme(name string) error {
	return s.Write(KeyGtkTheme, name)
}

// SetIconTheme sets the icon theme.
func (s *Settings) SetIconTheme(name string) error {
	return s.Write(KeyIconTheme, name)
}

// SetQtTheme is not supported and always fails.
func (s *Settings) SetQtTheme(name string) error {
	return errors.Newf(errors.ErrNotImplemented, "setting the Qt theme (%q) is not implemented", name).
		WithDetail("value", name)
}

// FontValue formats a font setting: "<family> <size>".
func FontValue(family string, size float64) string {
	return strings.TrimSpace(family) + " " + strconv.FormatFloat(size, 'f', -1, 64)
}

// Quote renders value as a GVariant string literal.
func Quote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
