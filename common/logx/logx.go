package logx

import (
	"log/slog"
	"sync/atomic"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// holder keeps atomic.Value happy when loggers of different concrete types are stored.
type holder struct{ l Logger }

var current atomic.Value

func init() {
	current.Store(holder{l: slog.Default()})
}

// L returns the process-wide logger.
func L() Logger {
	return current.Load().(holder).l
}

// SetLogger replaces the process-wide logger; nil silences logging.
func SetLogger(l Logger) {
	if l == nil {
		l = nop{}
	}
	current.Store(holder{l: l})
}
