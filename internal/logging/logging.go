// Package logging builds the logrus logger used by the command line tool.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"ChaosImg/internal/config"
)

// Redacted replaces the value of fields that look like key material.
const Redacted = "[REDACTED]"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from cfg. The returned closer releases the log file
// when output is "file" and is a no-op otherwise.
func New(cfg config.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		return nil, nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr", "":
		logger.SetOutput(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	default:
		return nil, nil, fmt.Errorf("unknown log output: %s", cfg.Output)
	}

	logger.AddHook(RedactHook{})
	return logger, closer, nil
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(RedactHook{})
	return logger
}

// RedactHook blanks fields whose name mentions a seed, key or secret.
// Fingerprints are derived values and pass through.
type RedactHook struct{}

// Levels implements logrus.Hook.
func (RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (RedactHook) Fire(entry *logrus.Entry) error {
	for name := range entry.Data {
		if sensitive(name) {
			entry.Data[name] = Redacted
		}
	}
	return nil
}

func sensitive(field string) bool {
	f := strings.ToLower(field)
	if strings.HasSuffix(f, "fingerprint") {
		return false
	}
	return strings.Contains(f, "seed") || strings.Contains(f, "key") || strings.Contains(f, "secret")
}
