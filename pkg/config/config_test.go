package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoots(t *testing.T) {
	cfg := &Config{Symlink: Symlink{ProtectedPaths: []string{".ssh", "/etc/", " ", ".config/envsync"}}}

	assert.Equal(t,
		[]string{"/home/u/.ssh", "/etc", "/home/u/.config/envsync"},
		cfg.ProtectedRoots("/home/u"))

	assert.Equal(t, []string{"/etc"}, cfg.ProtectedRoots(""))
}

func TestTOML(t *testing.T) {
	out, err := Default().TOML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "[desktop]")
	assert.Contains(t, text, "[symlink]")

	var back Config
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, *Default(), back)
}
