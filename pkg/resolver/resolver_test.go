package resolver

import (
	"testing"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(name, src, dest string) map[string]any {
	m := map[string]any{}
	if name != "" {
		m["name"] = name
	}
	if src != "" {
		m["src"] = src
	}
	if dest != "" {
		m["dest"] = dest
	}
	return m
}

func TestResolveEntry(t *testing.T) {
	tests := []struct {
		name      string
		entry     any
		wantCode  errors.ErrorCode
		wantField string
		check     func(t *testing.T, res Resolution)
	}{
		{
			name:  "valid_entry_gets_defaults",
			entry: link("vim", "vimrc", "~/.vimrc"),
			check: func(t *testing.T, res Resolution) {
				assert.Equal(t, "vim", res.Spec.Name)
				assert.Equal(t, "vimrc", res.Spec.Src)
				assert.Equal(t, "~/.vimrc", res.Spec.Dest)
				assert.True(t, res.Spec.Enable)
				assert.False(t, res.Spec.Force)
				assert.Equal(t, 1, res.Spec.Index)
			},
		},
		{
			name: "explicit_flags",
			entry: map[string]any{
				"name": "kitty", "src": "a", "dest": "b", "enable": false, "force": true,
			},
			check: func(t *testing.T, res Resolution) {
				assert.False(t, res.Spec.Enable)
				assert.True(t, res.Spec.Force)
			},
		},
		{
			name: "weak_flags_decode",
			entry: map[string]any{
				"name": "kitty", "src": "a", "dest": "b", "enable": "false", "force": float64(1),
			},
			check: func(t *testing.T, res Resolution) {
				assert.False(t, res.Spec.Enable)
				assert.True(t, res.Spec.Force)
			},
		},
		{
			name: "undecodable_flag_falls_back_to_default",
			entry: map[string]any{
				"name": "kitty", "src": "a", "dest": "b", "force": map[string]any{},
			},
			check: func(t *testing.T, res Resolution) {
				require.True(t, res.OK())
				assert.False(t, res.Spec.Force)
			},
		},
		{
			name:  "numeric_name_is_coerced",
			entry: map[string]any{"name": float64(42), "src": "a", "dest": "b"},
			check: func(t *testing.T, res Resolution) {
				assert.Equal(t, "42", res.Spec.Name)
			},
		},
		{
			name:     "not_a_record",
			entry:    "just a string",
			wantCode: errors.ErrFieldHasNoName,
		},
		{
			name:     "missing_name",
			entry:    link("", "a", "b"),
			wantCode: errors.ErrFieldHasNoName,
		},
		{
			name:     "empty_name",
			entry:    map[string]any{"name": "", "src": "a", "dest": "b"},
			wantCode: errors.ErrFieldHasNoName,
		},
		{
			name:      "missing_src",
			entry:     link("zsh", "", "~/.zshrc"),
			wantCode:  errors.ErrMissingField,
			wantField: "src",
		},
		{
			name:      "missing_dest",
			entry:     link("zsh", "zshrc", ""),
			wantCode:  errors.ErrMissingField,
			wantField: "dest",
		},
		{
			name:      "null_dest_counts_as_missing",
			entry:     map[string]any{"name": "zsh", "src": "zshrc", "dest": nil},
			wantCode:  errors.ErrMissingField,
			wantField: "dest",
		},
		{
			name:      "table_src_is_invalid",
			entry:     map[string]any{"name": "zsh", "src": map[string]any{}, "dest": "x"},
			wantCode:  errors.ErrInvalidField,
			wantField: "src",
		},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveEntry(1, tt.entry)
			if tt.wantCode != "" {
				require.Error(t, res.Err)
				assert.True(t, errors.IsErrorCode(res.Err, tt.wantCode), "got %v", res.Err)
				if tt.wantField != "" {
					assert.Equal(t, tt.wantField, errors.GetErrorDetails(res.Err)["field"])
				}
				return
			}
			require.NoError(t, res.Err)
			tt.check(t, res)
		})
	}
}

func TestResolve_PartialBatch(t *testing.T) {
	entries := []any{
		link("first", "a", "b"),
		link("second", "", "d"),
		link("third", "e", "f"),
	}

	results := New().Resolve(entries)
	require.Len(t, results, 3)

	specs, errs := Partition(results)
	require.Len(t, specs, 2)
	assert.Equal(t, "first", specs[0].Name)
	assert.Equal(t, "third", specs[1].Name)
	assert.Equal(t, 3, specs[1].Index)

	require.Len(t, errs, 1)
	assert.True(t, errors.IsErrorCode(errs[0], errors.ErrMissingField))
	details := errors.GetErrorDetails(errs[0])
	assert.Equal(t, "src", details["field"])
	assert.Equal(t, "second", details["name"])
}

func TestResolve_UnnamedEntryReportsIndex(t *testing.T) {
	results := New().Resolve([]any{link("ok", "a", "b"), 7, link("also", "c", "d")})

	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, 2, errors.GetErrorDetails(results[1].Err)["index"])
	assert.True(t, results[2].OK())
}

func TestResolve_Empty(t *testing.T) {
	results := New().Resolve(nil)
	assert.Empty(t, results)

	specs, errs := Partition(results)
	assert.Empty(t, specs)
	assert.Empty(t, errs)
}
