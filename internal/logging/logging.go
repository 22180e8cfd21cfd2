// Package logging provides the shared zap logger for pathbridge, with named
// sub-loggers per subsystem so bridge and locator output can be filtered
// apart.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subsystem names used with Named.
const (
	CategoryBridge   = "bridge"
	CategoryLocator  = "locator"
	CategoryDocument = "document"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init builds the process logger. Verbose lowers the level to Debug and
// switches to the console encoder.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// Named returns a sub-logger for the given subsystem. Safe to call before
// Init; it then returns a no-op logger.
func Named(category string) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(category)
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
