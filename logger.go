// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

var (
	sinksMu sync.Mutex
	sinks   []func(*slog.Logger)
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for aurora and its sub-packages.
// By default, aurora produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by aurora:
//   - [slog.LevelDebug]: per-frame diagnostics (resize, invalid color stops)
//   - [slog.LevelInfo]: lifecycle events (context tier selected, unmount)
//   - [slog.LevelWarn]: fallback engaged (no context, program build, draw error)
//
// Example:
//
//	aurora.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	fns := append([]func(*slog.Logger)(nil), sinks...)
	sinksMu.Unlock()
	for _, fn := range fns {
		fn(l)
	}
}

// Logger returns the current logger used by aurora.
// The returned logger is never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// RegisterLoggerSink registers fn to receive the logger on every SetLogger
// call. fn is called immediately with the current logger. Sub-packages with
// their own package logger use this to follow the root one.
func RegisterLoggerSink(fn func(*slog.Logger)) {
	sinksMu.Lock()
	sinks = append(sinks, fn)
	sinksMu.Unlock()
	fn(Logger())
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return loggerPtr.Load() }
