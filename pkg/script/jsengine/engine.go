// Package jsengine runs envsync scripts written in JavaScript using goja.
//
// It exposes the same env and utils globals as the Lua engine. Absent env
// values are null. Setters return true or false; the failure message goes
// to the reporter since a JS function has a single result.
package jsengine

import (
	"fmt"
	"unicode/utf8"

	"github.com/arthur-debert/envsync/pkg/bridge"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/dop251/goja"
	"github.com/rs/zerolog"
)

// Name identifies this engine.
const Name = "js"

// Engine owns one goja runtime.
type Engine struct {
	vm         *goja.Runtime
	scriptName string
	logger     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScriptName sets the name used in error positions.
func WithScriptName(name string) Option {
	return func(e *Engine) {
		e.scriptName = name
	}
}

// New creates a fresh runtime.
func New(opts ...Option) (engine *Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrInterpreterInit, "failed to initialize JavaScript runtime: %v", r)
		}
	}()

	e := &Engine{
		vm:         goja.New(),
		scriptName: "script",
		logger:     logging.GetLogger("script.js"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Name() string {
	return Name
}

// Install sets the env and utils globals. Env values that are not valid
// UTF-8 cannot be represented faithfully as JS strings; they are left
// undefined and reported together as one ErrMarshal.
func (e *Engine) Install(ctx *envctx.RunContext, b bridge.UtilityBridge) error {
	var failed []string

	env := e.vm.NewObject()
	for _, entry := range ctx.Entries() {
		switch {
		case !entry.Present:
			_ = env.Set(entry.Key, goja.Null())
		case !utf8.ValidString(entry.Value):
			failed = append(failed, entry.Key)
		default:
			if err := env.Set(entry.Key, entry.Value); err != nil {
				failed = append(failed, entry.Key)
			}
		}
	}
	if err := e.vm.Set("env", env); err != nil {
		return errors.Wrap(err, errors.ErrInterpreterInit, "failed to install env")
	}

	utils := e.vm.NewObject()
	for name, fn := range map[string]func(goja.FunctionCall) goja.Value{
		bridge.FnLinker:           e.linker(b),
		bridge.FnSetFont:          e.fontSetter(bridge.FnSetFont, b.SetFont),
		bridge.FnSetFontMonospace: e.fontSetter(bridge.FnSetFontMonospace, b.SetFontMonospace),
		bridge.FnSetGtkIcons:      e.nameSetter(bridge.FnSetGtkIcons, b.SetGtkIcons),
		bridge.FnSetGtkTheme:      e.nameSetter(bridge.FnSetGtkTheme, b.SetGtkTheme),
		bridge.FnSetQtTheme:       e.nameSetter(bridge.FnSetQtTheme, b.SetQtTheme),
	} {
		if err := utils.Set(name, fn); err != nil {
			return errors.Wrapf(err, errors.ErrInterpreterInit, "failed to install utils.%s", name)
		}
	}
	if err := e.vm.Set("utils", utils); err != nil {
		return errors.Wrap(err, errors.ErrInterpreterInit, "failed to install utils")
	}

	if len(failed) > 0 {
		e.logger.Warn().Strs("keys", failed).Msg("env values could not be marshalled")
		return errors.Newf(errors.ErrMarshal, "could not marshal env values %v", failed).
			WithDetail("keys", failed)
	}
	return nil
}

// Run executes source and returns its completion value.
func (e *Engine) Run(source string) (result any, err error) {
	prog, err := goja.Compile(e.scriptName, source, false)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptParse, "failed to parse %s", e.scriptName).
			WithDetail("engine", Name)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Newf(errors.ErrScriptRuntime, "error running %s: %v", e.scriptName, r).
				WithDetail("engine", Name)
		}
	}()

	v, err := e.vm.RunProgram(prog)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptRuntime, "error running %s", e.scriptName).
			WithDetail("engine", Name)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Close is a no-op; the runtime is garbage collected.
func (e *Engine) Close() {}

func (e *Engine) linker(b bridge.UtilityBridge) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		entries, ok := arg.Export().([]any)
		if !ok {
			panic(e.vm.NewTypeError("%s expects an array of link objects", bridge.FnLinker))
		}

		summary := b.Linker(entries)
		out := e.vm.NewObject()
		for k, v := range summary.Fields() {
			_ = out.Set(k, v)
		}
		return out
	}
}

func (e *Engine) fontSetter(fn string, set func(string, float64) error) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		family := e.requireString(fn, call.Argument(0))
		sizeArg := call.Argument(1)
		if goja.IsUndefined(sizeArg) || goja.IsNull(sizeArg) {
			panic(e.vm.NewTypeError("%s expects a size", fn))
		}
		return e.result(set(family, sizeArg.ToFloat()))
	}
}

func (e *Engine) nameSetter(fn string, set func(string) error) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return e.result(set(e.requireString(fn, call.Argument(0))))
	}
}

func (e *Engine) requireString(fn string, v goja.Value) string {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(e.vm.NewTypeError("%s expects a string argument", fn))
	}
	return v.String()
}

// result maps a setter error to false, except unimplemented utilities which
// throw.
func (e *Engine) result(err error) goja.Value {
	if err == nil {
		return e.vm.ToValue(true)
	}
	if errors.IsErrorCode(err, errors.ErrNotImplemented) {
		panic(e.vm.NewGoError(fmt.Errorf("%s", errors.Describe(err))))
	}
	return e.vm.ToValue(false)
}
