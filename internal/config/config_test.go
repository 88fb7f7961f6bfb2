package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences(t *testing.T) {
	p := Default()
	assert.Equal(t, "pdflatex", p.Engine)
	assert.Equal(t, ViewerEditor, p.Viewer)
	assert.False(t, p.UseLatexmk)
	require.NoError(t, p.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", p.Engine)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"engine: xelatex\nengine_options: -shell-escape\nuse_latexmk: true\nkeep_log_window: true\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xelatex", p.Engine)
	assert.Equal(t, "-shell-escape", p.EngineOptions)
	assert.True(t, p.UseLatexmk)
	assert.True(t, p.KeepLogWindow)
	assert.Equal(t, ViewerEditor, p.Viewer, "unset fields keep defaults")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TEXBUILD_ENGINE", "lualatex")
	t.Setenv("TEXBUILD_VERBOSE", "true")
	t.Setenv("TEXBUILD_USE_LATEXMK", "not-a-bool")

	p, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "lualatex", p.Engine)
	assert.True(t, p.Verbose)
	assert.False(t, p.UseLatexmk, "unparseable booleans are ignored")
}

func TestValidateRejectsEmptyEngine(t *testing.T) {
	p := Default()
	p.Engine = ""
	assert.Error(t, p.Validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
