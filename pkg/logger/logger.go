// Package logger keeps the printf-style helpers used across the service and
// backs them with a zap logger.
package logger

import (
	"log"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		log.Println(err)
		l = zap.NewNop()
	}
	set(l)
}

func set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Configure rebuilds the global logger with the given level.
// Development environments get zap's console encoder.
func Configure(level, environment string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	set(l)
	return nil
}

// L returns the structured logger for call sites that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Replace swaps the global logger, mostly for tests. It returns a restore func.
func Replace(l *zap.Logger) func() {
	mu.RLock()
	prev := base
	mu.RUnlock()
	set(l)
	return func() { set(prev) }
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	s().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	s().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	s().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	s().Warnf(format, v...)
}

func Sync() {
	_ = L().Sync()
}
