// Package logging provides the categorized zap loggers shared by the
// pipeline stages. Initialize once at startup; Get returns a named child
// logger per category so log lines can be filtered by stage.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one pipeline stage for log filtering.
type Category string

const (
	CategoryBatch    Category = "batch"    // Batch lifecycle, extraction
	CategoryAPI      Category = "api"      // Completion endpoint calls
	CategoryValidate Category = "validate" // Validator battery
	CategoryRepair   Category = "repair"   // Repair stage
	CategoryProject  Category = "project"  // Result projection, file output
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the process logger. Verbose switches to debug level.
// Safe to call once at startup before any Get.
func Initialize(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// Get returns the logger for a category. Before Initialize it returns a
// no-op logger, which keeps library code usable from tests.
func Get(cat Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	l := root.Named(string(cat))
	loggers[cat] = l
	return l
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
