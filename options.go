package ctrlc

import (
	"log/slog"
	"sync/atomic"
)

var logPtr atomic.Pointer[slog.Logger]

// logger returns the package logger. It discards until SetLogger is called.
func logger() *slog.Logger {
	if l := logPtr.Load(); l != nil {
		return l
	}
	return discard
}

var discard = slog.New(slog.DiscardHandler)

// SetLogger sets the logger used for install and uninstall events and, unless
// a Handlers has its own, for handler lifecycle events. Nil restores the
// discarding default. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	logPtr.Store(l)
}

// Option configures a Handlers.
type Option func(*Handlers)

// WithSignals replaces the signals a handler is installed for.
func WithSignals(sigs ...Signal) Option {
	return func(h *Handlers) { h.cfg.Signals = append([]Signal(nil), sigs...) }
}

// WithTermination adds the termination signals to the set: Termination
// everywhere, SIGHUP as well on Unix.
func WithTermination() Option {
	return func(h *Handlers) {
		h.cfg.Signals = append(h.cfg.signals(), terminationSet()...)
	}
}

// WithLogger sets the logger for handler lifecycle events and recovered panics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.cfg.Logger = l }
}
