// Package bridge is the capability object scripts call into through the
// utils global. It holds no logic of its own: linking delegates to the
// resolver and synchronizer, appearance setters to the desktop package.
package bridge

import (
	"github.com/arthur-debert/envsync/pkg/desktop"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/report"
	"github.com/arthur-debert/envsync/pkg/resolver"
	"github.com/arthur-debert/envsync/pkg/synchronizer"
	"github.com/rs/zerolog"
)

// Script-facing function names
const (
	FnLinker           = "linker"
	FnSetFont          = "setFont"
	FnSetFontMonospace = "setFontMonospace"
	FnSetGtkIcons      = "setGtkIcons"
	FnSetGtkTheme      = "setGtkTheme"
	FnSetQtTheme       = "setQtTheme"
)

// UtilityBridge is what a script engine exposes as utils.
//
// Setter errors are per call. Engines hand them back to the script as a
// false result, except ErrNotImplemented which they raise.
type UtilityBridge interface {
	// Linker resolves and applies a list of link records.
	Linker(entries []any) synchronizer.Summary
	SetFont(family string, size float64) error
	SetFontMonospace(family string, size float64) error
	SetGtkIcons(name string) error
	SetGtkTheme(name string) error
	SetQtTheme(name string) error
}

// Deps are the collaborators of a Bridge.
type Deps struct {
	Resolver     *resolver.Resolver
	Synchronizer *synchronizer.Synchronizer
	Settings     *desktop.Settings
	Reporter     report.Reporter
	// UpdateOnly suppresses forced replacement for every link
	UpdateOnly bool
}

// Bridge is the production UtilityBridge.
type Bridge struct {
	deps    Deps
	summary synchronizer.Summary
	logger  zerolog.Logger
}

var _ UtilityBridge = (*Bridge)(nil)

// New creates a bridge.
func New(deps Deps) *Bridge {
	if deps.Reporter == nil {
		deps.Reporter = report.Nop{}
	}
	return &Bridge{
		deps:   deps,
		logger: logging.GetLogger("bridge"),
	}
}

// Linker resolves entries, reports the invalid ones and synchronizes the
// rest. Invalid entries are counted as failed.
func (b *Bridge) Linker(entries []any) synchronizer.Summary {
	b.logger.Debug().Int("entries", len(entries)).Msg("linker called")

	specs, errs := resolver.Partition(b.deps.Resolver.Resolve(entries))
	var summary synchronizer.Summary
	for _, err := range errs {
		b.deps.Reporter.Failed(err)
		summary.Add(synchronizer.Failed)
	}

	summary.Merge(b.deps.Synchronizer.ApplyAll(specs, b.deps.UpdateOnly))
	b.summary.Merge(summary)
	return summary
}

// Summary returns the totals of every Linker call so far.
func (b *Bridge) Summary() synchronizer.Summary {
	return b.summary
}

func (b *Bridge) SetFont(family string, size float64) error {
	return b.setter(FnSetFont, b.deps.Settings.SetFont(family, size))
}

func (b *Bridge) SetFontMonospace(family string, size float64) error {
	return b.setter(FnSetFontMonospace, b.deps.Settings.SetFontMonospace(family, size))
}

func (b *Bridge) SetGtkIcons(name string) error {
	return b.setter(FnSetGtkIcons, b.deps.Settings.SetIconTheme(name))
}

func (b *Bridge) SetGtkTheme(name string) error {
	return b.setter(FnSetGtkTheme, b.deps.Settings.SetGtkTheme(name))
}

func (b *Bridge) SetQtTheme(name string) error {
	return b.setter(FnSetQtTheme, b.deps.Settings.SetQtTheme(name))
}

// setter reports per-call failures. Unimplemented calls are left for the
// engine to raise.
func (b *Bridge) setter(fn string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsErrorCode(err, errors.ErrNotImplemented) {
		b.logger.Error().Err(err).Str("function", fn).Msg("Unimplemented utility called")
		return err
	}
	b.logger.Warn().Err(err).Str("function", fn).Msg("Utility call failed")
	b.deps.Reporter.Failed(err)
	return err
}
