package commands

import (
	"fmt"
	"log/slog"
)

// BuildCmd implements the 'build' command: the bounded multi-pass
// sequence with bibliography and index resolution in between.
type BuildCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
	Latexmk  bool   `help:"Delegate the pass sequence to the latexmk meta tool"`
	View     bool   `help:"Open the viewer after a build without errors"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	if b.Latexmk {
		prefs.UseLatexmk = true
	}
	if b.View {
		prefs.AutoView = true
	}

	doc, err := resolveDocument(b.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	c := newCoordinator(root, prefs, doc)
	if prefs.Debug {
		if v, err := c.Version(ctx); err == nil {
			slog.Debug("Engine version", "version", v)
		}
	}

	rep, err := c.FullBuild(ctx)
	if rep != nil {
		fmt.Println(rep.Summary())
	}
	if err != nil {
		return err
	}
	if code := rep.ExitCode(prefs); code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}
