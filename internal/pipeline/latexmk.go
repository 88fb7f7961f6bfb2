package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/texbuild/internal/document"
	"git.home.luguber.info/inful/texbuild/internal/texlog"
)

// latexmkBuild delegates the full sequence to the latexmk meta tool. A
// generated rc file pins the selected engine and options so latexmk's
// internal runs match what the built-in sequence would have used.
func (c *Coordinator) latexmkBuild(ctx context.Context) (*Report, error) {
	engine := document.SelectEngine(c.doc, c.prefs)
	if err := c.run.Look(engine); err != nil {
		return nil, err
	}
	if err := c.run.Look("latexmk"); err != nil {
		return nil, err
	}
	c.warnRedundantSyncPackage(engine)

	rcPath, err := c.writeLatexmkRc(engine)
	if err != nil {
		return nil, err
	}
	defer os.Remove(rcPath)

	rep := c.newReport()
	defer c.finishBuild(rep)

	mode := "-pdf"
	if engine == "latex" {
		mode = "-pdfps"
	}
	if _, err := c.runStage(ctx, rep, StageTypeset,
		c.invocation("latexmk", mode, "-f", "-r", rcPath, c.doc.Name),
		texlog.NewLatexmk(c.sink, c.prefs.Verbose)); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}
	c.maybeView(rep)
	return rep, nil
}

// writeLatexmkRc emits a temporary rc file binding latexmk's latex and
// pdflatex rules to the selected engine and options.
func (c *Coordinator) writeLatexmkRc(engine string) (string, error) {
	opts := document.EngineOptions(c.doc, c.prefs, c.synctex)
	flat := ""
	for _, o := range opts {
		flat += " " + o
	}

	f, err := os.CreateTemp("", "texbuild-latexmkrc-*")
	if err != nil {
		return "", fmt.Errorf("create latexmkrc: %w", err)
	}
	content := fmt.Sprintf("$latex = 'latex%s';\n$pdflatex = '%s%s';\n", flat, engine, flat)
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write latexmkrc: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close latexmkrc: %w", err)
	}
	return filepath.Clean(f.Name()), nil
}
