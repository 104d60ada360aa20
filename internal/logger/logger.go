// Package logger provides process-wide structured logging for docchat.
//
// Output is human-readable on a console by default and switches to JSON
// lines for the server with SetJSON. Debug messages and section headers
// only appear in verbose mode, which the --verbose flag enables.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	jsonOut bool
	log     zerolog.Logger
)

var (
	level  zerolog.Level = zerolog.WarnLevel
	output io.Writer     = os.Stderr
	sink   io.Writer     = zerolog.SyncWriter(os.Stderr)
)

func init() {
	rebuild()
}

// rebuild recreates the logger from the current settings (caller must hold lock).
func rebuild() {
	w := sink
	if !jsonOut {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(output),
		}
	}

	lvl := level
	if verbose {
		lvl = zerolog.DebugLevel
	}

	log = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sink = zerolog.SyncWriter(w)
	rebuild()
}

// SetJSON switches between JSON lines and console output.
func SetJSON(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = enabled
	rebuild()
}

// SetLevel sets the minimum level outside verbose mode: debug, info, warn or error.
// Unknown names are ignored.
func SetLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	level = lvl
	rebuild()
}

// Logger returns the current logger for callers that log structured fields.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a message in verbose mode.
func Debug(format string, args ...any) {
	l := Logger()
	l.Debug().Msgf(format, args...)
}

// Section logs a section header in verbose mode.
func Section(name string) {
	l := Logger()
	l.Debug().Msgf("=== %s ===", name)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	l := Logger()
	l.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	l := Logger()
	l.Warn().Msgf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	l := Logger()
	l.Error().Msgf(format, args...)
}
