// Package logging configures the global zerolog logger. The terminal belongs
// to the TUI, so output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"

	"github.com/jask/patientrecords/internal/config"
)

const appName = "patientrecords"

// Setup opens the configured log file and installs it as log.Logger.
// The returned closer releases the file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.Logger = New(f, cfg.Format, level)
	return f, nil
}

// New builds a logger writing to w in the given format (json, console or ecs).
func New(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	var l zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "ecs":
		l = ecszerolog.New(w)
	case "console":
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	default:
		l = zerolog.New(w).With().Timestamp().Logger()
	}
	return l.Level(level).With().Str("app", appName).Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
