package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"firestige.xyz/ospfdump/internal/config"
)

const (
	defaultPattern = "%time [%level] %field %msg\n"
	defaultTime    = "2006-01-02 15:04:05"
)

// Init replaces the global logger according to cfg. It may be called again,
// e.g. after command-line flags override the loaded configuration.
func Init(cfg config.LogConfig) error {
	out := NewMultiWriter().Add(os.Stderr)
	if cfg.File.Enabled {
		if cfg.File.Path == "" {
			return fmt.Errorf("file output requires 'path' field")
		}
		out.AddFileAppender(cfg.File)
	}

	l, err := New(cfg, out)
	if err != nil {
		return err
	}
	setLogger(l)
	return nil
}

// New builds a logger writing to out without touching the global one.
func New(cfg config.LogConfig, out io.Writer) (Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.SetFormatter(&formatter{
		pattern: orDefault(cfg.Pattern, defaultPattern),
		time:    orDefault(cfg.Time, defaultTime),
	})
	l.SetLevel(level)
	l.SetOutput(out)

	return &logrusAdapter{entry: logrus.NewEntry(l)}, nil
}

func newDefault() Logger {
	l, _ := New(config.LogConfig{Level: "info"}, os.Stderr)
	return l
}

// parseLevel accepts the levels the configuration validates; an empty
// string means info.
func parseLevel(levelStr string) (logrus.Level, error) {
	if levelStr == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return logrus.InfoLevel, err
	}
	if level < logrus.ErrorLevel {
		return logrus.InfoLevel, fmt.Errorf("unsupported level: %s", levelStr)
	}
	return level, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
