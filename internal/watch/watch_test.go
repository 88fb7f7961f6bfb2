package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"thesis.tex", true},
		{"refs.bib", true},
		{"custom.sty", true},
		{"book.cls", true},
		{"plain.bst", true},
		{"THESIS.TEX", true},
		{"thesis.aux", false},
		{"thesis.log", false},
		{"thesis.pdf", false},
		{"thesis.synctex.gz", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isSourceFile(tc.name), tc.name)
	}
}

func TestWatcherTriggersRebuildOnSourceWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "thesis.tex")
	require.NoError(t, os.WriteFile(src, []byte("\\documentclass{article}\n"), 0o644))

	var rebuilds atomic.Int32
	w, err := New(dir, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(src, []byte("\\documentclass{book}\n"), 0o644))

	assert.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherIgnoresBuildOutput(t *testing.T) {
	dir := t.TempDir()

	var rebuilds atomic.Int32
	w, err := New(dir, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "thesis.aux"), []byte("\\relax\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thesis.log"), []byte("log\n"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, rebuilds.Load(), "output churn must not retrigger builds")
}

func TestWatcherSerializesRebuilds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "thesis.tex")
	require.NoError(t, os.WriteFile(src, []byte("a\n"), 0o644))

	var rebuilds, inFlight atomic.Int32
	var overlapped atomic.Bool
	w, err := New(dir, func(context.Context) error {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(150 * time.Millisecond)
		inFlight.Add(-1)
		rebuilds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(src, []byte("b\n"), 0o644))
	// Land a second change while the first rebuild is still running.
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, os.WriteFile(src, []byte("c\n"), 0o644))

	assert.Eventually(t, func() bool {
		return rebuilds.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.False(t, overlapped.Load(), "rebuilds must never run concurrently")
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "thesis.tex")
	require.NoError(t, os.WriteFile(src, []byte("a\n"), 0o644))

	var rebuilds atomic.Int32
	w, err := New(dir, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 150 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(src, []byte("b\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), rebuilds.Load(), "a burst of writes collapses into one rebuild")
}
