// Package gizmolog is the module's ambient logger: a thin wrapper over the
// standard library's log.Logger with leveled Info/Warn/Error helpers and an
// optional timestamp prefix.
package gizmolog

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger writes leveled, optionally timestamped lines to an underlying
// io.Writer.
type Logger struct {
	l  *log.Logger
	ts bool
}

// New builds a Logger writing to stdout.
func New(withTimestamp bool) *Logger {
	return NewWithWriter(os.Stdout, withTimestamp)
}

// NewWithWriter builds a Logger writing to an arbitrary io.Writer, useful in
// tests that want to capture output.
func NewWithWriter(w io.Writer, withTimestamp bool) *Logger {
	return &Logger{l: log.New(w, "", 0), ts: withTimestamp}
}

func (lg *Logger) line(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if lg.ts {
		lg.l.Printf("[%s] %-5s %s", time.Now().Format(time.RFC3339), level, msg)
		return
	}
	lg.l.Printf("%-5s %s", level, msg)
}

// Info logs an informational message.
func (lg *Logger) Info(format string, args ...any) { lg.line("INFO", format, args...) }

// Warn logs a warning.
func (lg *Logger) Warn(format string, args ...any) { lg.line("WARN", format, args...) }

// Error logs an error.
func (lg *Logger) Error(format string, args ...any) { lg.line("ERROR", format, args...) }
