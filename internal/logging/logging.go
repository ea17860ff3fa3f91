// Package logging provides the optional structured diagnostic log. By
// default it is silent: the controller owns the alternate screen, and any
// stray write to stdout/stderr would corrupt the frame, so nothing is
// logged unless a log file is configured. Grounded on the --log-file
// convention of the fzf/skim line of tools (used for its IPC debug
// trace) and on vippsas-sqlcode's use of github.com/sirupsen/logrus for
// leveled, structured output.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the diagnostic sink threaded through reader/preview/matcher/
// controller constructors. A nil *Logger discards everything.
type Logger struct {
	entry *logrus.Entry
}

// Discard is a Logger that drops every entry, used when no --log-file is
// configured.
var Discard = New("")

// New opens path (truncating it) and returns a Logger writing to it as
// logrus text-formatted lines. An empty path returns a Logger that
// discards everything, which is the default so the TUI is never at risk
// of having a log line land on the alternate screen.
func New(path string) *Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if path == "" {
		logger.SetOutput(io.Discard)
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			logger.SetOutput(io.Discard)
		} else {
			logger.SetOutput(f)
		}
	}
	return &Logger{entry: logrus.NewEntry(logger)}
}

// With returns a Logger with an extra structured field attached to every
// subsequent entry, e.g. l.With("source", "preview").
func (l *Logger) With(key string, value any) *Logger {
	if l == nil {
		return Discard
	}
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Warn logs a recoverable failure that the controller can continue past,
// e.g. an ingestion or preview subprocess error.
func (l *Logger) Warn(msg string, err error) {
	if l == nil {
		return
	}
	l.entry.WithError(err).Warn(msg)
}

// Info logs a recoverable, expected condition, e.g. a malformed query that
// fails to compile mid-keystroke.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.entry.Info(msg)
}

// Error logs a fatal condition immediately before the process exits, e.g.
// a terminal-capability failure or a delivered interrupt.
func (l *Logger) Error(msg string, err error) {
	if l == nil {
		return
	}
	l.entry.WithError(err).Error(msg)
}
