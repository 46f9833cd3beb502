package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRunsOnDroppedFile(t *testing.T) {
	dir := t.TempDir()
	processed := make(chan string, 1)

	w := New(dir, "*.csv", func(_ context.Context, path string) (string, error) {
		processed <- path
		return path + ".out", nil
	})
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before dropping the file.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID\n1\n"), 0o644))

	select {
	case got := <-processed:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("dropped file was never processed")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherIgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	processed := make(chan string, 1)

	w := New(dir, "*.csv", func(_ context.Context, path string) (string, error) {
		processed <- path
		return "", nil
	})
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.xlsx"), []byte("x"), 0o644))

	select {
	case got := <-processed:
		t.Fatalf("unexpected processing of %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestAcceptDebouncesBursts(t *testing.T) {
	w := New(t.TempDir(), "*.csv", nil)

	assert.True(t, w.accept("/drop/a.csv"))
	assert.False(t, w.accept("/drop/a.csv"), "second event inside the window is folded")
	assert.True(t, w.accept("/drop/b.csv"), "other files are independent")
}
