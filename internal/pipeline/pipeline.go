// Package pipeline coordinates the document build: it decides which
// toolchain stages to run from the artifacts previous stages left behind,
// sequences the bounded multi-pass typesetting loop, and folds every
// stage's classified output into a single report and exit code.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/texbuild/internal/config"
	"git.home.luguber.info/inful/texbuild/internal/document"
	"git.home.luguber.info/inful/texbuild/internal/metrics"
	"git.home.luguber.info/inful/texbuild/internal/runner"
	"git.home.luguber.info/inful/texbuild/internal/texlog"
	"git.home.luguber.info/inful/texbuild/internal/viewer"
)

// StageName identifies one build stage.
type StageName string

const (
	StageTypeset      StageName = "typeset"
	StageConvert      StageName = "convert" // DVI to PDF post-processing, never a pass
	StageBibliography StageName = "bibliography"
	StageIndex        StageName = "index"
	StageLint         StageName = "lint"
	StageClean        StageName = "clean"
)

// ErrAborted is returned when a fatal diagnostic halted the pipeline.
// The report still carries the counts accumulated up to and including the
// fatal stage.
var ErrAborted = errors.New("texbuild: build aborted by fatal diagnostic")

// Coordinator owns one end-to-end build. It is single-use and never
// shared across concurrent builds; stages run strictly one at a time.
type Coordinator struct {
	prefs    *config.Preferences
	doc      *document.Document
	run      runner.Runner
	sink     io.Writer
	recorder metrics.Recorder
	notifier viewer.Notifier
	synctex  bool
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithRunner substitutes the process runner (tests use canned streams).
func WithRunner(r runner.Runner) Option { return func(c *Coordinator) { c.run = r } }

// WithSink directs classified tool output; defaults to no output.
func WithSink(w io.Writer) Option { return func(c *Coordinator) { c.sink = w } }

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(c *Coordinator) { c.recorder = r } }

// WithNotifier injects the viewer boundary.
func WithNotifier(n viewer.Notifier) Option { return func(c *Coordinator) { c.notifier = n } }

// WithSyncTeX toggles -synctex=1 on engine invocations.
func WithSyncTeX(on bool) Option { return func(c *Coordinator) { c.synctex = on } }

// New builds a Coordinator for one document.
func New(prefs *config.Preferences, doc *document.Document, opts ...Option) *Coordinator {
	c := &Coordinator{
		prefs:    prefs,
		doc:      doc,
		run:      runner.ExecRunner{},
		recorder: metrics.NoopRecorder{},
		notifier: viewer.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) newReport() *Report {
	return &Report{
		BuildID:  uuid.NewString(),
		Document: c.doc.Path(),
		Start:    time.Now(),
	}
}

// runStage executes one tool invocation, classifies its output and folds
// the result into the report. The returned record mirrors what was
// folded. Collaborator failures (missing executable) surface as errors
// and are never folded into the report.
func (c *Coordinator) runStage(ctx context.Context, rep *Report, stage StageName, inv runner.Invocation, parser *texlog.Parser) (StageRecord, error) {
	t0 := time.Now()
	res, err := c.run.Run(ctx, inv, parser)
	if err != nil {
		return StageRecord{}, err
	}
	rec := StageRecord{
		Stage:      stage,
		Tool:       inv.Name,
		ExitStatus: res.ExitStatus,
		Errors:     res.Parse.Errors,
		Warnings:   res.Parse.Warnings,
		Fatal:      res.Parse.Fatal,
		Duration:   time.Since(t0),
	}
	rep.fold(rec)
	switch {
	case res.Parse.Passes > 0:
		// The meta tool reports its own sub-pass count.
		rep.Passes += res.Parse.Passes
	case stage == StageTypeset:
		rep.Passes++
	}

	c.recorder.ObserveStageDuration(string(stage), rec.Duration)
	c.recorder.IncStageResult(string(stage), stageResultLabel(res.Parse))
	c.recorder.AddDiagnostics(string(stage), res.Parse.Errors, res.Parse.Warnings)

	// Process exit status is advisory only; the classifier decided the
	// counts above. Mismatches are worth a debug trace, nothing more.
	if res.ExitStatus != 0 && res.Parse.Errors == 0 && !res.Parse.Fatal {
		slog.Debug("Tool exited nonzero without classified errors",
			"stage", stage, "tool", inv.Name, "exit", res.ExitStatus)
	}
	return rec, nil
}

func stageResultLabel(p texlog.ParseResult) metrics.ResultLabel {
	switch {
	case p.Fatal:
		return metrics.ResultFatal
	case p.Errors > 0:
		return metrics.ResultError
	case p.Warnings > 0:
		return metrics.ResultWarning
	default:
		return metrics.ResultSuccess
	}
}

// FullBuild runs the bounded multi-pass sequence: typeset, resolve
// bibliography and index artifacts, then typeset twice more so forward
// references settle. The pass budget is fixed rather than iterating to a
// detected fixed point, trading a possible extra pass for predictable
// running time. A fatal stage aborts immediately.
func (c *Coordinator) FullBuild(ctx context.Context) (*Report, error) {
	if c.prefs.UseLatexmk {
		return c.latexmkBuild(ctx)
	}

	engine := document.SelectEngine(c.doc, c.prefs)
	if err := c.run.Look(engine); err != nil {
		return nil, err
	}
	c.warnRedundantSyncPackage(engine)

	rep := c.newReport()
	defer c.finishBuild(rep)

	artifacts := ProbeArtifacts(c.doc.Dir, c.doc.BaseName())
	slog.Debug("Probed artifacts", "artifacts", fmt.Sprintf("%+v", artifacts))

	if _, err := c.typesetOnce(ctx, rep, engine); err != nil {
		return rep, err
	}
	if rep.Fatal {
		return rep, ErrAborted
	}

	if artifacts.NeedsBibliography() {
		if err := c.bibliographyStage(ctx, rep, artifacts); err != nil {
			return rep, err
		}
		if rep.Fatal {
			return rep, ErrAborted
		}
	}
	if artifacts.NeedsIndex() {
		if err := c.indexStage(ctx, rep, artifacts); err != nil {
			return rep, err
		}
		if rep.Fatal {
			return rep, ErrAborted
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := c.typesetOnce(ctx, rep, engine); err != nil {
			return rep, err
		}
		if rep.Fatal {
			return rep, ErrAborted
		}
	}

	c.maybeView(rep)
	return rep, nil
}

// finishBuild finalizes the report, emits metrics and persists the
// report when configured. Runs on every exit path from a build.
func (c *Coordinator) finishBuild(rep *Report) {
	rep.finish()
	c.recorder.ObserveBuildDuration(rep.End.Sub(rep.Start))
	c.recorder.IncBuildOutcome(string(rep.Outcome))
	c.recorder.ObservePassCount(rep.Passes)
	if c.prefs.ReportPath != "" {
		if err := rep.Persist(c.prefs.ReportPath); err != nil {
			slog.Warn("Could not persist build report", "path", c.prefs.ReportPath, "error", err)
		}
	}
}

// warnRedundantSyncPackage flags \usepackage{pdfsync} when the engine
// already provides synctex.
func (c *Coordinator) warnRedundantSyncPackage(engine string) {
	if c.synctex && c.doc.UsesPackage("pdfsync") {
		slog.Warn("Engine supports synctex but the document includes pdfsync; \\usepackage{pdfsync} can be removed",
			"engine", engine)
	}
}

// maybeView hands the rendered artifact to the viewer boundary after a
// build with no errors.
func (c *Coordinator) maybeView(rep *Report) {
	if !c.prefs.AutoView || rep.Errors > 0 {
		return
	}
	pdf := c.doc.Dir + "/" + c.doc.BaseName() + ".pdf"
	var err error
	if c.notifier.Opened(pdf) {
		err = c.notifier.Refresh(pdf)
	} else {
		err = c.notifier.Open(pdf)
	}
	if err != nil {
		slog.Warn("Viewer notification failed", "pdf", pdf, "error", err)
	}
}
