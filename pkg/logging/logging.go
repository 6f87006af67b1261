// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the level and destination of the global logger.
type Options struct {
	Level string
	// File receives the log when ToFile is set, or always when Stderr is nil.
	File   string
	ToFile bool
	// Stderr is the console destination; os.Stderr when nil.
	Stderr io.Writer
}

// Setup replaces the global logger. The returned func closes the log file,
// if one was opened.
func Setup(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	if !opts.ToFile {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		return func() error { return nil }, nil
	}

	// The TUI owns the terminal, so everything goes to the file.
	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fileLogger := zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &fileLogger
	log.Logger = fileLogger
	return f.Close, nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
