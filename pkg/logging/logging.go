// Package logging holds the process-wide operational logger.
//
// Operational logs are not audit records: governance decisions go to the
// audit sink, this logger carries diagnostics such as failed audit writes,
// store errors and sweeper activity.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// New builds a JSON production logger at the given level. An unknown level
// falls back to info.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Init replaces the process logger with a new one at level.
func Init(level string) error {
	l, err := New(level)
	if err != nil {
		return err
	}
	Set(l.Sugar())
	return nil
}

// Set replaces the process logger.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the process logger. It is a no-op logger until Init or Set is
// called.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
