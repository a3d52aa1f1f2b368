// Package logging provides the structured logger used across the engine,
// a thin factory wrapping logrus.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface every component depends on. It is small
// and interface-free by design: one concrete type, constructed once at
// startup and threaded through via constructor injection.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// New creates a logger writing to logFile (if non-empty) in the given
// format ("text" or "json") at the given level; with an empty logFile it
// writes to stderr. When logFile is set and enableStdout is true
// logs are duplicated to stdout, which operators want in local/CLI runs
// but not under a process supervisor that already captures the file.
func New(logFile, level, format string, enableStdout bool) (Logger, error) {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	var file *os.File
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return Logger{}, fmt.Errorf("create log directory: %w", err)
		}
		file, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return Logger{}, fmt.Errorf("open log file: %w", err)
		}
		if enableStdout {
			l.SetOutput(io.MultiWriter(file, os.Stdout))
		} else {
			l.SetOutput(file)
		}
	}

	return Logger{entry: logrus.NewEntry(l), file: file}, nil
}

// NewDefault returns a text logger at info level writing to stderr only,
// suitable for tests and short-lived CLI invocations.
func NewDefault() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return Logger{entry: logrus.NewEntry(l)}
}

// WithField returns a logger with an additional structured field, such as
// a run_id or trace_id attached to a log line.
func (l Logger) WithField(key string, value interface{}) Logger {
	return Logger{entry: l.entry.WithField(key, value), file: l.file}
}

// WithFields returns a logger with multiple additional structured fields.
func (l Logger) WithFields(fields logrus.Fields) Logger {
	return Logger{entry: l.entry.WithFields(fields), file: l.file}
}

func (l Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

// Close releases the underlying log file, if one was opened.
func (l Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
