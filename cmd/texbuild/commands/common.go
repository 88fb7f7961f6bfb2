package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texbuild/internal/config"
	"git.home.luguber.info/inful/texbuild/internal/document"
	"git.home.luguber.info/inful/texbuild/internal/pipeline"
)

// Global carries shared state into subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command grammar and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"texbuild.yaml"`
	Verbose bool             `short:"v" help:"Surface info-level tool output"`
	Synctex bool             `help:"Enable synctex source-PDF synchronization"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run the full typeset-resolve-typeset sequence"`
	Typeset TypesetCmd `cmd:"" help:"Run a single typesetting pass"`
	Bib     BibCmd     `cmd:"" help:"Resolve the bibliography (biber or bibtex)"`
	Index   IndexCmd   `cmd:"" help:"Generate the index or glossaries"`
	Lint    LintCmd    `cmd:"" help:"Check the document with chktex"`
	Clean   CleanCmd   `cmd:"" help:"Remove generated build artifacts"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever source files change"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ExitCodeError carries a deliberate process exit code out of a command.
// The special code 200 tells the invoking editor the diagnostic view can
// be dismissed.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// loadPrefs loads the preferences file and applies CLI overrides.
func loadPrefs(root *CLI) (*config.Preferences, error) {
	prefs, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if root.Verbose {
		prefs.Verbose = true
	}
	return prefs, nil
}

// resolveDocument resolves the typesetting target, following %!TEX root
// directives.
func resolveDocument(path string) (*document.Document, error) {
	doc, err := document.Resolve(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved document", "name", doc.Name, "dir", doc.Dir)
	return doc, nil
}

// newCoordinator wires a pipeline for one build with CLI-level options.
func newCoordinator(root *CLI, prefs *config.Preferences, doc *document.Document, extra ...pipeline.Option) *pipeline.Coordinator {
	opts := append([]pipeline.Option{
		pipeline.WithSink(os.Stdout),
		pipeline.WithSyncTeX(root.Synctex),
	}, extra...)
	return pipeline.New(prefs, doc, opts...)
}

// signalContext returns a context canceled on SIGINT/SIGTERM so a build
// in flight tears down its child process.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// finishReport prints the one-line summary and maps the report to the
// process exit code contract.
func finishReport(rep *pipeline.Report, prefs *config.Preferences) error {
	fmt.Println(rep.Summary())
	if code := rep.ExitCode(prefs); code != pipeline.ExitSuccess {
		return &ExitCodeError{Code: code}
	}
	return nil
}
