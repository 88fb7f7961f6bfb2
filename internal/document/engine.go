package document

import (
	"strings"

	"git.home.luguber.info/inful/texbuild/internal/config"
)

// Package sets that force a particular engine when no TS-program
// directive overrides the choice.
var (
	dviOnlyPackages = []string{"pstricks", "xyling", "pst-asr", "OTtablx", "epsfig"}
	xetexPackages   = []string{"xunicode", "fontspec"}
)

// SelectEngine picks the typesetting engine for the document:
// TS-program directive, then package heuristics, then the configured
// default.
func SelectEngine(doc *Document, prefs *config.Preferences) string {
	if program, ok := doc.Directives[DirectiveProgram]; ok && program != "" {
		return program
	}
	if doc.UsesPackage(dviOnlyPackages...) {
		return "latex"
	}
	if doc.UsesPackage(xetexPackages...) {
		return "xelatex"
	}
	return prefs.Engine
}

// EngineOptions assembles the engine command line options. Nonstop mode
// and file:line error locators are always on; the classifier depends on
// the latter. TS-options from the document replace the configured default
// options, never both.
func EngineOptions(doc *Document, prefs *config.Preferences, synctex bool) []string {
	opts := []string{"-interaction=nonstopmode", "-file-line-error"}
	if synctex {
		opts = append(opts, "-synctex=1")
	}
	extra := prefs.EngineOptions
	if tsOpts, ok := doc.Directives[DirectiveOptions]; ok && tsOpts != "" {
		extra = tsOpts
	}
	if extra != "" {
		// Options with embedded spaces are not a thing any engine accepts.
		opts = append(opts, strings.Fields(extra)...)
	}
	return opts
}
