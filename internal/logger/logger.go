// Package logger is the process-wide log for tetra.
//
// Errors are always written. Debug, Info and Warn lines and Section
// headers only appear in verbose mode (--verbose), where they trace how
// instructions were indexed and how a question was ranked.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
	log           = build(os.Stderr, false)
)

// build returns a console logger writing "[LEVEL] message" lines. Quiet
// loggers drop everything below error.
func build(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     true,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(l any) string { return "[" + strings.ToUpper(fmt.Sprint(l)) + "]" },
	}).Level(level)
}

// SetVerbose switches verbose mode.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	log = build(out, v)
}

func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return log.GetLevel() <= zerolog.DebugLevel
}

// SetOutput redirects the log, keeping the current mode.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	log = build(w, log.GetLevel() <= zerolog.DebugLevel)
}

func Debug(format string, args ...any) { emit(zerolog.DebugLevel, format, args) }

func Info(format string, args ...any) { emit(zerolog.InfoLevel, format, args) }

func Warn(format string, args ...any) { emit(zerolog.WarnLevel, format, args) }

func Error(format string, args ...any) { emit(zerolog.ErrorLevel, format, args) }

// Section writes a "=== name ===" header in verbose mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if log.GetLevel() <= zerolog.DebugLevel {
		fmt.Fprintf(out, "\n=== %s ===\n", name)
	}
}

func emit(level zerolog.Level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	log.WithLevel(level).Msgf(format, args...)
}
