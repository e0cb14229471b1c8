// Package logger builds the structured logger shared by every screen.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/config"
)

// New returns a logger writing to the data directory so entries never
// interleave with the interactive terminal. It falls back to stderr when
// the log file cannot be opened.
func New(cfg *config.Config) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if err := cfg.EnsureDirectories(); err == nil {
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			log.SetOutput(f)
			return log, f
		}
	}
	log.SetOutput(os.Stderr)
	return log, nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard is a logger for tests and callers that do not care about output.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
