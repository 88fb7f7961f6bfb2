// Package viewer is the interface boundary to external PDF viewers.
// Driving a concrete viewer is platform automation and lives outside this
// core; the pipeline only decides whether viewing should happen.
package viewer

import "log/slog"

// Notifier abstracts the viewer-side operations the pipeline may request
// after a successful build.
type Notifier interface {
	// Opened reports whether the viewer already shows the given PDF.
	Opened(pdf string) bool
	// Open asks the viewer to display the PDF.
	Open(pdf string) error
	// Refresh asks an already-open viewer to reload the PDF.
	Refresh(pdf string) error
}

// Noop is the default Notifier: it logs the request and does nothing.
type Noop struct{}

func (Noop) Opened(string) bool { return false }

func (Noop) Open(pdf string) error {
	slog.Info("Viewer integration not configured; skipping open", "pdf", pdf)
	return nil
}

func (Noop) Refresh(pdf string) error {
	slog.Debug("Viewer integration not configured; skipping refresh", "pdf", pdf)
	return nil
}
