package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/texbuild/internal/config"
)

func TestSelectEngine(t *testing.T) {
	cases := []struct {
		name       string
		directives map[string]string
		packages   []string
		want       string
	}{
		{"default engine", nil, nil, "pdflatex"},
		{"TS-program wins", map[string]string{DirectiveProgram: "lualatex"}, []string{"pstricks"}, "lualatex"},
		{"dvi-only package forces latex", nil, []string{"graphicx", "pstricks"}, "latex"},
		{"epsfig forces latex", nil, []string{"epsfig"}, "latex"},
		{"fontspec forces xelatex", nil, []string{"fontspec"}, "xelatex"},
		{"xunicode forces xelatex", nil, []string{"xunicode"}, "xelatex"},
		{"dvi heuristic outranks xetex", nil, []string{"fontspec", "pstricks"}, "latex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &Document{Directives: tc.directives, Packages: tc.packages}
			if doc.Directives == nil {
				doc.Directives = map[string]string{}
			}
			assert.Equal(t, tc.want, SelectEngine(doc, config.Default()))
		})
	}
}

func TestEngineOptionsBaseline(t *testing.T) {
	doc := &Document{Directives: map[string]string{}}
	opts := EngineOptions(doc, config.Default(), false)
	assert.Equal(t, []string{"-interaction=nonstopmode", "-file-line-error"}, opts)
}

func TestEngineOptionsSynctex(t *testing.T) {
	doc := &Document{Directives: map[string]string{}}
	opts := EngineOptions(doc, config.Default(), true)
	assert.Contains(t, opts, "-synctex=1")
}

func TestEngineOptionsTSOptionsReplaceConfigured(t *testing.T) {
	prefs := config.Default()
	prefs.EngineOptions = "-shell-escape"
	doc := &Document{Directives: map[string]string{
		DirectiveOptions: "-halt-on-error -draftmode",
	}}
	opts := EngineOptions(doc, prefs, false)
	assert.Contains(t, opts, "-halt-on-error")
	assert.Contains(t, opts, "-draftmode")
	assert.NotContains(t, opts, "-shell-escape", "document options replace configured ones")
}

func TestEngineOptionsConfiguredExtras(t *testing.T) {
	prefs := config.Default()
	prefs.EngineOptions = "-shell-escape"
	doc := &Document{Directives: map[string]string{}}
	opts := EngineOptions(doc, prefs, false)
	assert.Equal(t, []string{"-interaction=nonstopmode", "-file-line-error", "-shell-escape"}, opts)
}
