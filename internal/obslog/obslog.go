// Package obslog provides the structured logger shared by every control
// plane component. Failures that the spec marks "logged, not propagated"
// (§4.1-§4.11) all go through here rather than through ad-hoc fmt.Printf.
package obslog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is a shorthand for structured log fields.
type Fields = logrus.Fields

var (
	once sync.Once
	base *logrus.Logger
)

func root() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.JSONFormatter{})
		if lvl, err := logrus.ParseLevel(os.Getenv("RIVERFLOW_LOG_LEVEL")); err == nil {
			base.SetLevel(lvl)
		} else {
			base.SetLevel(logrus.InfoLevel)
		}
	})
	return base
}

// Logger scopes every entry under a component name, mirroring the way the
// spec names each control-plane piece in its error taxonomy (§7).
type Logger struct {
	entry *logrus.Entry
}

// For returns a Logger scoped to the named component (e.g. "coordinator",
// "worker-wrapper").
func For(component string) *Logger {
	return &Logger{entry: root().WithField("component", component)}
}

// With returns a derived Logger carrying additional fields, e.g. the
// current generation or component name being processed.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Info(msg string)                 { l.entry.Info(msg) }
func (l *Logger) Warn(msg string)                 { l.entry.Warn(msg) }
func (l *Logger) Error(msg string)                { l.entry.Error(msg) }
func (l *Logger) Debug(msg string)                { l.entry.Debug(msg) }

// WarnErr logs a recoverable error the spec says to "log and continue".
func (l *Logger) WarnErr(msg string, err error) {
	l.entry.WithField("error", err.Error()).Warn(msg)
}

// ErrorErr logs a surfaced/fatal error.
func (l *Logger) ErrorErr(msg string, err error) {
	l.entry.WithField("error", err.Error()).Error(msg)
}
