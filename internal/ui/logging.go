package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger writes diagnostics to stderr. A nil *Logger discards everything.
type Logger struct {
	Debug bool
	l     *log.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stderr, debug)
}

func NewLoggerTo(w io.Writer, debug bool) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}

	return &Logger{Debug: debug, l: l}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.Debug {
		return
	}
	l.l.Debug(line(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.l.Info(line(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.l.Warn(line(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.l.Error(line(format, args...))
}

func line(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
