// Package logging builds the service logger.
package logging

import (
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	Level   string
	LokiURL string
	LokiJob string
	Output  io.Writer
}

// New returns a JSON logrus logger. When LokiURL is set a LokiHook is
// attached and returned so the caller can drain it on shutdown.
func New(cfg Config) (*logrus.Logger, *LokiHook, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	} else {
		logger.SetOutput(os.Stdout)
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "log level %q", cfg.Level)
		}
		level = parsed
	}
	logger.SetLevel(level)

	if cfg.LokiURL == "" {
		return logger, nil, nil
	}

	job := cfg.LokiJob
	if job == "" {
		job = "shopfront"
	}
	hook := NewLokiHook(cfg.LokiURL, job)
	logger.AddHook(hook)
	return logger, hook, nil
}
