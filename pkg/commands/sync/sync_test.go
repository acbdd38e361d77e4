package sync

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envsync/pkg/config"
	"github.com/arthur-debert/envsync/pkg/desktop"
	"github.com/arthur-debert/envsync/pkg/envctx"
	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/synchronizer"
	"github.com/arthur-debert/envsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const luaScript = `
local links = {
  { name = "vim", src = env.SCRIPT_DIR .. "/vimrc", dest = env.HOME_DIR .. "/.vimrc" },
  { name = "kitty", src = env.SCRIPT_DIR .. "/kitty", dest = env.CONFIG_DIR .. "/kitty", force = true },
  { name = "broken", src = env.SCRIPT_DIR .. "/missing", dest = "~/.broken" },
  { src = "x", dest = "y" },
  { name = "off", src = "nowhere", dest = "~/.off", enable = false },
}
utils.linker(links)
utils.setGtkTheme("Adwaita-dark")
`

type fixture struct {
	env    *testutil.TestEnvironment
	rec    *testutil.Recorder
	runner *testutil.MockRunner
}

func newFixture(t *testing.T) *fixture {
	env := testutil.NewTestEnvironment(t)
	env.SourceFile("vimrc", "set number")
	env.SourceFile("kitty/kitty.conf", "font_size 12")
	env.HomeFile(".config/kitty/kitty.conf", "old")
	return &fixture{env: env, rec: &testutil.Recorder{}, runner: &testutil.MockRunner{}}
}

func (f *fixture) run(t *testing.T, script string, update bool) (*Result, error) {
	t.Helper()
	return Run(Options{
		ScriptPath: script,
		UpdateOnly: update,
		Reporter:   f.rec,
		Runner:     f.runner,
	})
}

func TestRun_LuaScript(t *testing.T) {
	f := newFixture(t)
	f.runner.On("Run", "dconf", "write", desktop.KeyGtkTheme, "'Adwaita-dark'").Return(nil)
	script := f.env.Script("init.lua", luaScript)

	result, err := f.run(t, script, false)
	require.NoError(t, err)

	assert.Equal(t, "lua", result.Engine)
	assert.Equal(t, script, result.ScriptPath)
	assert.False(t, result.ReturnedLinks)
	assert.Equal(t, synchronizer.Summary{Created: 1, Replaced: 1, Failed: 2, Disabled: 1}, result.Summary)

	testutil.AssertSymlink(t, f.env.Home(".vimrc"), f.env.Source("vimrc"))
	testutil.AssertSymlink(t, f.env.Home(".config/kitty"), f.env.Source("kitty"))
	testutil.AssertNoFile(t, f.env.Home(".broken"))
	testutil.AssertNoFile(t, f.env.Home(".off"))
	f.runner.AssertExpectations(t)

	failures := f.rec.Failures()
	require.Len(t, failures, 2)
	assert.True(t, errors.IsErrorCode(failures[0], errors.ErrFieldHasNoName))
	assert.True(t, errors.IsErrorCode(failures[1], errors.ErrLocationNotFound))
}

func TestRun_Rerun(t *testing.T) {
	f := newFixture(t)
	f.runner.On("Run", "dconf", "write", desktop.KeyGtkTheme, "'Adwaita-dark'").Return(nil)
	script := f.env.Script("init.lua", luaScript)

	_, err := f.run(t, script, false)
	require.NoError(t, err)

	t.Run("forced links are recreated", func(t *testing.T) {
		result, err := f.run(t, script, false)
		require.NoError(t, err)
		assert.Equal(t, synchronizer.Summary{Replaced: 1, Skipped: 1, Failed: 2, Disabled: 1}, result.Summary)
	})

	t.Run("update only leaves everything in place", func(t *testing.T) {
		result, err := f.run(t, script, true)
		require.NoError(t, err)
		assert.Equal(t, synchronizer.Summary{Skipped: 2, Failed: 2, Disabled: 1}, result.Summary)
		testutil.AssertSymlink(t, f.env.Home(".vimrc"), f.env.Source("vimrc"))
	})
}

func TestRun_ReturnedLinkList(t *testing.T) {
	f := newFixture(t)
	script := f.env.Script("init.lua", `
return {
  { name = "vim", src = env.SCRIPT_DIR .. "/vimrc", dest = "~/.vimrc" },
}`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.True(t, result.ReturnedLinks)
	assert.Equal(t, synchronizer.Summary{Created: 1}, result.Summary)
	testutil.AssertSymlink(t, f.env.Home(".vimrc"), f.env.Source("vimrc"))
}

func TestRun_ReturnedListWithMalformedEntry(t *testing.T) {
	f := newFixture(t)
	script := f.env.Script("init.lua", `
return {
  { name = "vim", src = env.SCRIPT_DIR .. "/vimrc", dest = env.HOME_DIR .. "/.vimrc" },
  "oops",
}`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.True(t, result.ReturnedLinks)
	assert.Equal(t, synchronizer.Summary{Created: 1, Failed: 1}, result.Summary)
	testutil.AssertSymlink(t, f.env.Home(".vimrc"), f.env.Source("vimrc"))

	failures := f.rec.Failures()
	require.Len(t, failures, 1)
	assert.True(t, errors.IsErrorCode(failures[0], errors.ErrFieldHasNoName))
	assert.Equal(t, 2, errors.GetErrorDetails(failures[0])["index"])
}

func TestRun_SparseLinkList(t *testing.T) {
	f := newFixture(t)
	script := f.env.Script("init.lua", `
local links = {}
links[1] = { name = "vim", src = env.SCRIPT_DIR .. "/vimrc", dest = env.HOME_DIR .. "/.vimrc" }
links[3] = { name = "kitty", src = env.SCRIPT_DIR .. "/kitty", dest = env.CONFIG_DIR .. "/kitty", force = true }
utils.linker(links)`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.Equal(t, synchronizer.Summary{Created: 1, Replaced: 1}, result.Summary)
	testutil.AssertSymlink(t, f.env.Home(".vimrc"), f.env.Source("vimrc"))
	testutil.AssertSymlink(t, f.env.Home(".config/kitty"), f.env.Source("kitty"))
}

func TestRun_TildeFollowsInjectedHome(t *testing.T) {
	f := newFixture(t)
	other := testutil.CreateDir(t, f.env.Root, "alt-home")
	script := f.env.Script("init.lua", `
utils.linker({
  { name = "vim", src = env.SCRIPT_DIR .. "/vimrc", dest = "~/.vimrc" },
})`)

	result, err := Run(Options{
		ScriptPath: script,
		Reporter:   f.rec,
		Runner:     f.runner,
		Home:       envctx.StaticHome(other),
	})
	require.NoError(t, err)
	assert.Equal(t, synchronizer.Summary{Created: 1}, result.Summary)
	testutil.AssertSymlink(t, filepath.Join(other, ".vimrc"), f.env.Source("vimrc"))
	testutil.AssertNoFile(t, f.env.Home(".vimrc"))
}

func TestRun_JavaScript(t *testing.T) {
	f := newFixture(t)
	f.runner.On("Run", "dconf", "write", desktop.KeyFont, "'Inter 11'").Return(nil)
	script := f.env.Script("init.js", `
utils.linker([
  { name: "vim", src: env.SCRIPT_DIR + "/vimrc", dest: env.HOME_DIR + "/.vimrc" },
]);
utils.setFont("Inter", 11);
`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.Equal(t, "js", result.Engine)
	assert.Equal(t, synchronizer.Summary{Created: 1}, result.Summary)
	f.runner.AssertExpectations(t)
}

func TestRun_DotenvSelectsEngine(t *testing.T) {
	f := newFixture(t)
	f.env.SourceFile(".env", "ENVSYNC_SCRIPT_DEFAULT_ENGINE=js\n")
	script := f.env.Script("envsyncrc", `[{ name: "vim", src: env.SCRIPT_DIR + "/vimrc", dest: "~/.vimrc" }]`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.Equal(t, "js", result.Engine)
	assert.True(t, result.ReturnedLinks)
	assert.Equal(t, 1, result.Summary.Created)
}

func TestRun_SetterFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.runner.On("Run", "dconf", "write", desktop.KeyGtkTheme, "'Adwaita-dark'").Return(fmt.Errorf("exit status 1"))
	script := f.env.Script("init.lua", luaScript)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Created)

	failures := f.rec.Failures()
	require.Len(t, failures, 3)
	assert.True(t, errors.IsErrorCode(failures[2], errors.ErrCommandFailed))
}

func TestRun_ProtectedPath(t *testing.T) {
	f := newFixture(t)
	f.env.SourceFile("ssh_config", "Host *")
	f.env.HomeFile(".ssh/config", "original")
	script := f.env.Script("init.lua", `
utils.linker({
  { name = "ssh", src = env.SCRIPT_DIR .. "/ssh_config", dest = "~/.ssh/config", force = true },
})`)

	result, err := f.run(t, script, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Failed)
	testutil.AssertFileContent(t, f.env.Home(".ssh/config"), "original")

	failures := f.rec.Failures()
	require.Len(t, failures, 1)
	assert.True(t, errors.IsErrorCode(failures[0], errors.ErrProtectedPath))
}

func TestRun_FatalErrors(t *testing.T) {
	tests := []struct {
		name   string
		script func(f *fixture) string
		code   errors.ErrorCode
	}{
		{
			name:   "missing script",
			script: func(f *fixture) string { return f.env.Source("nope.lua") },
			code:   errors.ErrConfigNotFound,
		},
		{
			name:   "empty path",
			script: func(f *fixture) string { return "" },
			code:   errors.ErrConfigNotFound,
		},
		{
			name:   "syntax error",
			script: func(f *fixture) string { return f.env.Script("bad.lua", "local = 1") },
			code:   errors.ErrScriptParse,
		},
		{
			name:   "runtime error",
			script: func(f *fixture) string { return f.env.Script("boom.lua", `error("boom")`) },
			code:   errors.ErrScriptRuntime,
		},
		{
			name:   "qt theme",
			script: func(f *fixture) string { return f.env.Script("qt.lua", `utils.setQtTheme("kvantum")`) },
			code:   errors.ErrScriptRuntime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.run(t, tt.script(f), false)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	f := newFixture(t)
	f.env.Settings("[output]\nformat = \"html\"\n")
	script := f.env.Script("init.lua", "")

	_, err := f.run(t, script, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestRun_UsesSuppliedConfig(t *testing.T) {
	f := newFixture(t)
	f.env.Settings("[output]\nformat = \"html\"\n")
	f.env.SourceFile("ssh_config", "Host *")
	f.env.HomeFile(".ssh/config", "original")
	script := f.env.Script("init.lua", `
utils.linker({
  { name = "ssh", src = env.SCRIPT_DIR .. "/ssh_config", dest = "~/.ssh/config", force = true },
})`)

	cfg := config.Default()
	cfg.Symlink.ProtectedPaths = nil

	result, err := Run(Options{
		ScriptPath: script,
		Config:     cfg,
		Reporter:   f.rec,
		Runner:     f.runner,
	})
	require.NoError(t, err)
	assert.Equal(t, synchronizer.Summary{Replaced: 1}, result.Summary)
	testutil.AssertSymlink(t, f.env.Home(".ssh/config"), f.env.Source("ssh_config"))
}
