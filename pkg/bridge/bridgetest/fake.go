// Package bridgetest provides a recording bridge.UtilityBridge for engine
// tests.
package bridgetest

import (
	"fmt"

	"github.com/arthur-debert/envsync/pkg/bridge"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/synchronizer"
)

// Call is one recorded bridge invocation.
type Call struct {
	Fn   string
	Args []any
}

// Fake records calls. Linker returns LinkerSummary; setters return the
// error registered in Errors for their function name.
type Fake struct {
	Calls         []Call
	LinkerSummary synchronizer.Summary
	Errors        map[string]error
}

var _ bridge.UtilityBridge = (*Fake)(nil)

// New returns a fake whose setters succeed and whose SetQtTheme is
// unimplemented, like the real bridge.
func New() *Fake {
	return &Fake{
		Errors: map[string]error{
			bridge.FnSetQtTheme: errors.New(errors.ErrNotImplemented, "setting the Qt theme is not implemented"),
		},
	}
}

// Fail makes fn return a command failure.
func (f *Fake) Fail(fn string) {
	f.Errors[fn] = errors.Wrap(fmt.Errorf("exit status 1"), errors.ErrCommandFailed, "failed to run "+fn)
}

// Linked returns the entries of every Linker call.
func (f *Fake) Linked() [][]any {
	var out [][]any
	for _, c := range f.Calls {
		if c.Fn == bridge.FnLinker {
			entries, _ := c.Args[0].([]any)
			out = append(out, entries)
		}
	}
	return out
}

func (f *Fake) record(fn string, args ...any) error {
	f.Calls = append(f.Calls, Call{Fn: fn, Args: args})
	return f.Errors[fn]
}

func (f *Fake) Linker(entries []any) synchronizer.Summary {
	_ = f.record(bridge.FnLinker, entries)
	return f.LinkerSummary
}

func (f *Fake) SetFont(family string, size float64) error {
	return f.record(bridge.FnSetFont, family, size)
}

func (f *Fake) SetFontMonospace(family string, size float64) error {
	return f.record(bridge.FnSetFontMonospace, family, size)
}

func (f *Fake) SetGtkIcons(name string) error {
	return f.record(bridge.FnSetGtkIcons, name)
}

func (f *Fake) SetGtkTheme(name string) error {
	return f.record(bridge.FnSetGtkTheme, name)
}

func (f *Fake) SetQtTheme(name string) error {
	return f.record(bridge.FnSetQtTheme, name)
}
