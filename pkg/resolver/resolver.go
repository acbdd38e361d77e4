// Package resolver turns the loosely-typed link records produced by a script
// into validated types.LinkSpec values.
//
// Resolution is a pure decode step: it never touches the filesystem and never
// aborts a batch. Each declared entry yields exactly one Resolution, in
// declaration order, carrying either a spec or a per-entry error.
package resolver

import (
	"fmt"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
)

// Field names of a link record
const (
	FieldName   = "name"
	FieldSrc    = "src"
	FieldDest   = "dest"
	FieldEnable = "enable"
	FieldForce  = "force"
)

// Resolution is the outcome of decoding one declared entry.
type Resolution struct {
	// Index is the 1-based declaration position
	Index int
	Spec  types.LinkSpec
	Err   error
}

// OK reports whether the entry decoded into a valid spec.
func (r Resolution) OK() bool {
	return r.Err == nil
}

// Resolver decodes link records.
type Resolver struct {
	logger zerolog.Logger
}

// New creates a resolver.
func New() *Resolver {
	return &Resolver{logger: logging.GetLogger("resolver")}
}

// Resolve decodes every entry, preserving order.
func (r *Resolver) Resolve(entries []any) []Resolution {
	results := make([]Resolution, 0, len(entries))
	for i, entry := range entries {
		results = append(results, r.ResolveEntry(i+1, entry))
	}
	return results
}

// ResolveEntry decodes the entry declared at the given 1-based index.
func (r *Resolver) ResolveEntry(index int, entry any) Resolution {
	res := Resolution{Index: index}

	record, ok := asRecord(entry)
	if !ok {
		r.logger.Debug().Int("index", index).Str("type", fmt.Sprintf("%T", entry)).Msg("Link entry is not a record")
		res.Err = errors.FieldHasNoName(index)
		return res
	}

	name, present, err := decodeString(record, FieldName)
	if !present || err != nil || name == "" {
		res.Err = errors.FieldHasNoName(index)
		return res
	}

	spec := types.NewLinkSpec(name, "", "")
	spec.Index = index

	for _, field := range []string{FieldSrc, FieldDest} {
		value, present, err := decodeString(record, field)
		if !present {
			res.Err = errors.MissingField(field, name)
			return res
		}
		if err != nil {
			res.Err = errors.InvalidField(err, field, name)
			return res
		}
		if field == FieldSrc {
			spec.Src = value
		} else {
			spec.Dest = value
		}
	}

	spec.Enable = r.decodeBool(record, FieldEnable, true, name)
	spec.Force = r.decodeBool(record, FieldForce, false, name)

	res.Spec = spec
	return res
}

// decodeBool never fails: absent or undecodable values fall back to def.
func (r *Resolver) decodeBool(record map[string]any, field string, def bool, name string) bool {
	raw, ok := record[field]
	if !ok || raw == nil {
		return def
	}
	var out bool
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		r.logger.Warn().
			Err(err).
			Str("link", name).
			Str("field", field).
			Bool("default", def).
			Msg("Ignoring undecodable flag, using default")
		return def
	}
	return out
}

// decodeString accepts strings and numbers (coerced the way Lua does);
// anything else is a decode error.
func decodeString(record map[string]any, field string) (string, bool, error) {
	raw, ok := record[field]
	if !ok || raw == nil {
		return "", false, nil
	}

	switch v := raw.(type) {
	case string:
		return v, true, nil
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		var out string
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return "", true, err
		}
		return out, true, nil
	default:
		return "", true, fmt.Errorf("expected a string, got %T", raw)
	}
}

func asRecord(entry any) (map[string]any, bool) {
	switch v := entry.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if s, ok := k.(string); ok {
				out[s] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Partition splits results into valid specs and errors, both in order.
func Partition(results []Resolution) ([]types.LinkSpec, []error) {
	var specs []types.LinkSpec
	var errs []error
	for _, res := range results {
		if res.OK() {
			specs = append(specs, res.Spec)
		} else {
			errs = append(errs, res.Err)
		}
	}
	return specs, errs
}
