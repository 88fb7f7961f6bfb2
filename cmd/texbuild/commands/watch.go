package commands

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/texbuild/internal/metrics"
	"git.home.luguber.info/inful/texbuild/internal/pipeline"
	"git.home.luguber.info/inful/texbuild/internal/watch"
)

// WatchCmd implements the 'watch' command: rebuild the document whenever
// its source files change, until interrupted.
type WatchCmd struct {
	Document      string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
	Latexmk       bool   `help:"Delegate each rebuild to the latexmk meta tool"`
	MetricsListen string `name:"metrics-listen" help:"Serve Prometheus build metrics on this address (e.g. :9190)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	if w.Latexmk {
		prefs.UseLatexmk = true
	}

	doc, err := resolveDocument(w.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if w.MetricsListen != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		go serveMetrics(ctx, w.MetricsListen, reg)
	}

	// A Coordinator is single-use, so every rebuild wires a fresh one
	// against the same document and recorder.
	rebuild := func(ctx context.Context) error {
		c := newCoordinator(root, prefs, doc, pipeline.WithRecorder(recorder))
		rep, err := c.FullBuild(ctx)
		if rep != nil {
			slog.Info("Rebuild finished", "outcome", rep.Outcome,
				"errors", rep.Errors, "warnings", rep.Warnings, "passes", rep.Passes)
		}
		if err != nil {
			return err
		}
		return nil
	}

	// Build once up front so the watcher starts from a settled state.
	if err := rebuild(ctx); err != nil {
		slog.Error("Initial build failed", "error", err)
	}

	watcher, err := watch.New(doc.Dir, rebuild)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	slog.Info("Watching document", "document", doc.Path())
	<-ctx.Done()
	slog.Info("Shutdown signal received")
	return nil
}

// serveMetrics exposes the build metrics registry until the context ends.
func serveMetrics(ctx context.Context, addr string, reg *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving build metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics server failed", "error", err)
	}
}
