// Package luaengine runs envsync scripts written in Lua.
//
// The interpreter is gopher-lua with the standard libraries opened. Scripts
// see two globals: env, a table of well-known directories, and utils, the
// host functions.
package luaengine

import (
	"strings"

	"github.com/arthur-debert/envsync/pkg/bridge"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// Name identifies this engine.
const Name = "lua"

// Engine owns one Lua state.
type Engine struct {
	L         *lua.LState
	chunkName string
	logger    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithChunkName sets the name used in error positions, usually the script
// file name.
func WithChunkName(name string) Option {
	return func(e *Engine) {
		e.chunkName = name
	}
}

// New creates a fresh interpreter.
func New(opts ...Option) (engine *Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrInterpreterInit, "failed to initialize Lua interpreter: %v", r)
		}
	}()

	e := &Engine{
		L:         lua.NewState(),
		chunkName: "script",
		logger:    logging.GetLogger("script.lua"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Name() string {
	return Name
}

// Install sets the env and utils globals. Lua strings hold arbitrary bytes,
// so no env value can fail to marshal.
func (e *Engine) Install(ctx *envctx.RunContext, b bridge.UtilityBridge) error {
	env := e.L.NewTable()
	for _, entry := range ctx.Entries() {
		if !entry.Present {
			e.logger.Debug().Str("key", entry.Key).Msg("env value absent")
			continue
		}
		e.L.SetField(env, entry.Key, lua.LString(entry.Value))
	}
	e.L.SetGlobal("env", env)

	utils := e.L.NewTable()
	e.L.SetFuncs(utils, map[string]lua.LGFunction{
		bridge.FnLinker:           e.linker(b),
		bridge.FnSetFont:          e.fontSetter(b.SetFont),
		bridge.FnSetFontMonospace: e.fontSetter(b.SetFontMonospace),
		bridge.FnSetGtkIcons:      e.nameSetter(b.SetGtkIcons),
		bridge.FnSetGtkTheme:      e.nameSetter(b.SetGtkTheme),
		bridge.FnSetQtTheme:       e.nameSetter(b.SetQtTheme),
	})
	e.L.SetGlobal("utils", utils)
	return nil
}

// Run executes source and returns the chunk's first return value.
func (e *Engine) Run(source string) (any, error) {
	fn, err := e.L.Load(strings.NewReader(source), e.chunkName)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptParse, "failed to parse %s", e.chunkName).
			WithDetail("engine", Name)
	}

	top := e.L.GetTop()
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptRuntime, "error running %s", e.chunkName).
			WithDetail("engine", Name)
	}
	defer e.L.SetTop(top)

	if e.L.GetTop() == top {
		return nil, nil
	}
	return toGo(e.L.Get(top+1), 0), nil
}

// Close releases the interpreter.
func (e *Engine) Close() {
	e.L.Close()
}

// linker passes the table's integer-keyed entries to the bridge in key
// order. Holes are skipped; a slot that is not a table is left for the
// resolver to report.
func (e *Engine) linker(b bridge.UtilityBridge) lua.LGFunction {
	return func(L *lua.LState) int {
		values, others := arrayPart(L.CheckTable(1))
		if len(values) == 0 && others > 0 {
			L.ArgError(1, "expected a list of link tables")
			return 0
		}
		if others > 0 {
			e.logger.Warn().Int("ignored", others).Msg("linker ignores non-integer keys")
		}

		entries := make([]any, 0, len(values))
		for _, v := range values {
			entries = append(entries, toGo(v, 1))
		}

		summary := b.Linker(entries)
		L.Push(summaryTable(L, summary.Fields()))
		return 1
	}
}

func (e *Engine) fontSetter(set func(string, float64) error) lua.LGFunction {
	return func(L *lua.LState) int {
		family := L.CheckString(1)
		size := L.CheckNumber(2)
		return e.result(L, set(family, float64(size)))
	}
}

func (e *Engine) nameSetter(set func(string) error) lua.LGFunction {
	return func(L *lua.LState) int {
		return e.result(L, set(L.CheckString(1)))
	}
}

// result returns true, or false plus a message. Unimplemented utilities
// raise a Lua error instead.
func (e *Engine) result(L *lua.LState, err error) int {
	if err == nil {
		L.Push(lua.LTrue)
		return 1
	}
	if errors.IsErrorCode(err, errors.ErrNotImplemented) {
		L.RaiseError("%s", errors.Describe(err))
		return 0
	}
	L.Push(lua.LFalse)
	L.Push(lua.LString(errors.Describe(err)))
	return 2
}
