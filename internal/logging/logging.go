package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"signal-link.klederson.com/internal/config"
)

// New builds a logger from settings. When toFile is set, output goes to
// s.File so it does not corrupt the terminal UI; otherwise to stderr.
// The returned closer releases the log file and is never nil.
func New(s config.LogSettings, toFile bool) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(s.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	if s.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   toFile,
		})
	}

	if !toFile {
		log.SetOutput(os.Stderr)
		return log, nopCloser{}, nil
	}
	if s.File == "" {
		log.SetOutput(io.Discard)
		return log, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
