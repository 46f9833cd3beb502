// Package watch runs the pipeline over a drop directory: every bulk file
// that lands there is picked up and cleaned, one batch per file.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"bulkclean/internal/logging"
)

// RunFunc processes one dropped file and returns the output path.
type RunFunc func(ctx context.Context, path string) (string, error)

// Watcher monitors a directory and feeds matching new files to the run
// function. Files are debounced so editors and slow copies that emit a
// burst of events trigger a single run.
type Watcher struct {
	dir     string
	pattern string
	run     RunFunc
	log     *zap.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time

	debounce time.Duration
	// settle is how long a file must sit quiet before processing; a file
	// still being copied would otherwise run on a partial read.
	settle time.Duration
}

// New creates a watcher over dir for filenames matching pattern.
func New(dir, pattern string, run RunFunc) *Watcher {
	return &Watcher{
		dir:      dir,
		pattern:  pattern,
		run:      run,
		log:      logging.Get(logging.CategoryBatch),
		lastSeen: make(map[string]time.Time),
		debounce: 500 * time.Millisecond,
		settle:   time.Second,
	}
}

// Run blocks watching the directory until the context is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("watching drop directory",
		zap.String("dir", w.dir), zap.String("pattern", w.pattern))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.accept(event.Name) {
				continue
			}
			go w.process(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// accept matches the filename against the pattern and applies the debounce
// window.
func (w *Watcher) accept(path string) bool {
	matched, err := filepath.Match(w.pattern, filepath.Base(path))
	if err != nil || !matched {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if last, ok := w.lastSeen[path]; ok && now.Sub(last) < w.debounce {
		w.lastSeen[path] = now
		return false
	}
	w.lastSeen[path] = now
	return true
}

func (w *Watcher) process(ctx context.Context, path string) {
	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}

	w.log.Info("processing dropped file", zap.String("input", path))
	out, err := w.run(ctx, path)
	if err != nil {
		w.log.Error("dropped file failed",
			zap.String("input", path), zap.Error(err))
		return
	}
	w.log.Info("dropped file cleaned",
		zap.String("input", path), zap.String("output", out))
}
