package core

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the tool logger. Debug output goes to stderr only when debug is set;
// warnings and errors are always shown.
func NewLogger(debug bool) *log.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: debug,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "assimpsys",
	})
}

// DiscardLogger returns a logger that drops everything, for library callers that pass none
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// Sub returns l with a component prefix, or a discarding logger when l is nil
func Sub(l *log.Logger, component string) *log.Logger {
	if l == nil {
		return DiscardLogger()
	}
	return l.WithPrefix(l.GetPrefix() + "/" + component)
}
