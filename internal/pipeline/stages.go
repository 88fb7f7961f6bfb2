package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/texbuild/internal/document"
	"git.home.luguber.info/inful/texbuild/internal/runner"
	"git.home.luguber.info/inful/texbuild/internal/texlog"
)

// invocation assembles a toolchain command bound to the document's
// directory and output encoding.
func (c *Coordinator) invocation(name string, args ...string) runner.Invocation {
	inv := runner.Invocation{Name: name, Args: args, Dir: c.doc.Dir}
	if enc, err := c.doc.Encoding(); err == nil {
		inv.Encoding = enc
	} else {
		slog.Warn("Ignoring encoding directive", "error", err)
	}
	return inv
}

// typesetOnce runs a single engine pass over the document.
func (c *Coordinator) typesetOnce(ctx context.Context, rep *Report, engine string) (StageRecord, error) {
	args := document.EngineOptions(c.doc, c.prefs, c.synctex)
	args = append(args, c.doc.Name)
	return c.runStage(ctx, rep, StageTypeset,
		c.invocation(engine, args...),
		texlog.NewLaTeX(c.sink, c.prefs.Verbose))
}

// bibliographyStage resolves citations. The biblatex control file selects
// the alternate processor (biber); otherwise the standard processor
// (bibtex) runs once per bibliography aux file.
func (c *Coordinator) bibliographyStage(ctx context.Context, rep *Report, artifacts Artifacts) error {
	if artifacts.BiberControl {
		if err := c.run.Look("biber"); err != nil {
			return err
		}
		_, err := c.runStage(ctx, rep, StageBibliography,
			c.invocation("biber", c.doc.BaseName()),
			texlog.NewBiber(c.sink, c.prefs.Verbose))
		return err
	}

	if err := c.run.Look("bibtex"); err != nil {
		return err
	}
	auxFiles := bibliographyAuxFiles(c.doc.Dir, c.doc.BaseName())
	if len(auxFiles) == 0 {
		slog.Debug("No aux files to process", "document", c.doc.Name)
		return nil
	}
	for _, aux := range auxFiles {
		slog.Info("Processing bibliography", "aux", aux)
		if _, err := c.runStage(ctx, rep, StageBibliography,
			c.invocation("bibtex", aux),
			texlog.NewBibTeX(c.sink, c.prefs.Verbose)); err != nil {
			return err
		}
		if rep.Fatal {
			return nil
		}
	}
	return nil
}

// indexStage generates the document index, or the glossaries when the
// document defines glossary entries.
func (c *Coordinator) indexStage(ctx context.Context, rep *Report, artifacts Artifacts) error {
	if artifacts.Glossary {
		if err := c.run.Look("makeglossaries"); err != nil {
			return err
		}
		_, err := c.runStage(ctx, rep, StageIndex,
			c.invocation("makeglossaries", c.doc.BaseName()),
			texlog.NewMakeGlossaries(c.sink, c.prefs.Verbose))
		return err
	}

	if err := c.run.Look("makeindex"); err != nil {
		return err
	}
	_, err := c.runStage(ctx, rep, StageIndex,
		c.invocation("makeindex", c.doc.BaseName()+".idx"),
		texlog.NewMakeIndex(c.sink, c.prefs.Verbose))
	return err
}

// Typeset runs exactly one typesetting pass (single-stage mode). The DVI
// engine additionally needs dvips/ps2pdf post-processing to yield a PDF.
func (c *Coordinator) Typeset(ctx context.Context) (*Report, error) {
	engine := document.SelectEngine(c.doc, c.prefs)
	if err := c.run.Look(engine); err != nil {
		return nil, err
	}
	c.warnRedundantSyncPackage(engine)

	rep := c.newReport()
	defer c.finishBuild(rep)

	if _, err := c.typesetOnce(ctx, rep, engine); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}
	if engine == "latex" {
		if err := c.dviToPDF(ctx, rep); err != nil {
			return rep, err
		}
	}
	c.maybeView(rep)
	return rep, nil
}

// dviToPDF converts DVI engine output to PDF via dvips and ps2pdf.
// Neither tool has a diagnostic grammar worth parsing; their lines pass
// through as plain output.
func (c *Coordinator) dviToPDF(ctx context.Context, rep *Report) error {
	base := c.doc.BaseName()
	for _, step := range []struct {
		name string
		args []string
	}{
		{"dvips", []string{base + ".dvi", "-o", base + ".ps"}},
		{"ps2pdf", []string{base + ".ps"}},
	} {
		if err := c.run.Look(step.name); err != nil {
			return err
		}
		if _, err := c.runStage(ctx, rep, StageConvert,
			c.invocation(step.name, step.args...),
			texlog.NewParser(nil, c.sink, c.prefs.Verbose)); err != nil {
			return err
		}
	}
	return nil
}

// Bibliography runs only the bibliography stage (single-stage mode).
func (c *Coordinator) Bibliography(ctx context.Context) (*Report, error) {
	rep := c.newReport()
	defer c.finishBuild(rep)

	artifacts := ProbeArtifacts(c.doc.Dir, c.doc.BaseName())
	if err := c.bibliographyStage(ctx, rep, artifacts); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}
	return rep, nil
}

// Index runs only the index/glossary stage (single-stage mode).
func (c *Coordinator) Index(ctx context.Context) (*Report, error) {
	rep := c.newReport()
	defer c.finishBuild(rep)

	artifacts := ProbeArtifacts(c.doc.Dir, c.doc.BaseName())
	if err := c.indexStage(ctx, rep, artifacts); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}
	return rep, nil
}

// Lint runs the lint checker over the document (single-stage mode).
func (c *Coordinator) Lint(ctx context.Context) (*Report, error) {
	if err := c.run.Look("chktex"); err != nil {
		return nil, err
	}
	rep := c.newReport()
	defer c.finishBuild(rep)

	if _, err := c.runStage(ctx, rep, StageLint,
		c.invocation("chktex", c.doc.Name),
		texlog.NewChkTeX(c.sink, c.prefs.Verbose)); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}
	return rep, nil
}

// Version returns the first line of the engine's --version output,
// classified through a bare parser so encoding handling stays uniform.
func (c *Coordinator) Version(ctx context.Context) (string, error) {
	engine := document.SelectEngine(c.doc, c.prefs)
	if err := c.run.Look(engine); err != nil {
		return "", err
	}
	var buf lineCapture
	parser := texlog.NewParser(nil, &buf, true)
	if _, err := c.run.Run(ctx, c.invocation(engine, "--version"), parser); err != nil {
		return "", err
	}
	return buf.first, nil
}

// lineCapture keeps the first line written to it.
type lineCapture struct{ first string }

func (l *lineCapture) Write(p []byte) (int, error) {
	if l.first == "" {
		s := string(p)
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				s = s[:i]
				break
			}
		}
		l.first = s
	}
	return len(p), nil
}
