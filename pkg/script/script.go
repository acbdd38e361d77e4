// Package script selects and drives the interpreter that evaluates a sync
// script. Lua is the primary language; JavaScript is picked by a .js
// extension.
package script

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envsync/pkg/bridge"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/script/jsengine"
	"github.com/arthur-debert/envsync/pkg/script/luaengine"
)

// Engine owns one interpreter for the duration of a run.
type Engine interface {
	// Name is the engine identifier, "lua" or "js".
	Name() string
	// Install binds the env and utils globals. An ErrMarshal error means
	// some env values are missing but the engine is usable.
	Install(ctx *envctx.RunContext, b bridge.UtilityBridge) error
	// Run executes source to completion and returns the exported result.
	Run(source string) (any, error)
	Close()
}

var (
	_ Engine = (*luaengine.Engine)(nil)
	_ Engine = (*jsengine.Engine)(nil)
)

var extensions = map[string]string{
	".lua": luaengine.Name,
	".js":  jsengine.Name,
	".mjs": jsengine.Name,
}

// EngineFor picks the engine name for a script path, falling back to
// defaultEngine for unknown extensions.
func EngineFor(path, defaultEngine string) (string, error) {
	if name, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return name, nil
	}
	switch defaultEngine {
	case luaengine.Name, jsengine.Name:
		return defaultEngine, nil
	case "":
		return luaengine.Name, nil
	default:
		return "", errors.Newf(errors.ErrInterpreterInit, "unknown script engine %q", defaultEngine).
			WithDetail("engine", defaultEngine)
	}
}

// New creates the engine for path.
func New(path, defaultEngine string) (Engine, error) {
	name, err := EngineFor(path, defaultEngine)
	if err != nil {
		return nil, err
	}

	chunk := filepath.Base(path)
	if name == jsengine.Name {
		e, err := jsengine.New(jsengine.WithScriptName(chunk))
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	e, err := luaengine.New(luaengine.WithChunkName(chunk))
	if err != nil {
		return nil, err
	}
	return e, nil
}

// LinkList returns result as a list of link entries when a script returned
// a non-empty list from its top level. Entries are not checked here; the
// resolver reports the malformed ones.
func LinkList(result any) ([]any, bool) {
	list, ok := result.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}
