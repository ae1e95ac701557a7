// Package log is the diagnostic side channel. Everything written here goes to
// stderr and is meant for operators, never for the inventory output itself.
package log

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "pkgfetch",
	})
	Logger.SetLevel(log.WarnLevel)
}

// SetDebug switches the logger between debug and warn level.
func SetDebug(enabled bool) {
	if enabled {
		Logger.SetLevel(log.DebugLevel)
		return
	}
	Logger.SetLevel(log.WarnLevel)
}

// SetOutput redirects diagnostics, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Debug logs a debug message.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}
