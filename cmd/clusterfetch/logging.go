package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// charmLogger adapts a charm logger to the key/value Logger interfaces of
// the internal packages.
type charmLogger struct {
	l *log.Logger
}

// newLogger logs warnings and errors to w; verbose adds debug and info.
func newLogger(w io.Writer, verbose bool) *charmLogger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "clusterfetch",
		Level:           log.WarnLevel,
		ReportTimestamp: verbose,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return &charmLogger{l: l}
}

func (c *charmLogger) Debug(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c *charmLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Info(msg, keysAndValues...)
}

func (c *charmLogger) Warn(msg string, keysAndValues ...interface{}) {
	c.l.Warn(msg, keysAndValues...)
}

func (c *charmLogger) Error(msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, keysAndValues...)
}
