// Package watch monitors a document's source files and triggers rebuilds
// when they change. Build output churn (aux files, logs) is filtered out
// so a rebuild never retriggers itself.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildFunc is invoked, debounced, after source changes settle.
type RebuildFunc func(ctx context.Context) error

// sourceExtensions are the file suffixes treated as typesetting input.
// Everything else in the directory is assumed to be build output.
var sourceExtensions = []string{".tex", ".bib", ".sty", ".cls", ".bst"}

// Watcher monitors the typeset directory for source changes.
type Watcher struct {
	dir      string
	rebuild  RebuildFunc
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopChan chan struct{}
	dirty    chan struct{}
	debounce time.Duration
}

// New creates a watcher over the given typeset directory.
func New(dir string, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve watch directory: %w", err)
	}
	return &Watcher{
		dir:      abs,
		rebuild:  rebuild,
		watcher:  fsw,
		stopChan: make(chan struct{}),
		dirty:    make(chan struct{}, 1),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start begins monitoring. The watcher runs until Stop is called or the
// context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	slog.Info("Watching for source changes", "dir", w.dir)

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)
	return nil
}

// Stop shuts the watcher down. Safe to call once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close file watcher: %w", err)
	}
	return nil
}

func isSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range sourceExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// watchLoop translates file system events into debounced dirty marks.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSourceFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Source change detected", "file", event.Name, "op", event.Op.String())
			w.markDirty()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// rebuildLoop runs the rebuild callback after changes settle for the
// debounce interval. A change arriving mid-wait restarts the timer. The
// callback runs on this goroutine, so rebuilds are strictly serialized: a
// change landing mid-build is picked up afterwards, never concurrently.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.dirty:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", "error", err)
			}
		}
	}
}

// markDirty coalesces pending change notifications.
func (w *Watcher) markDirty() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}
