// Package logger builds the logrus logger shared by every component.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// timestampFormat is millisecond precision without a zone.
const timestampFormat = "2006-01-02 15:04:05.000"

// Config controls level, destination and rotation.
type Config struct {
	// Verbose switches the level from info to debug.
	Verbose bool

	// File, when set, receives a copy of every entry through a rotating writer.
	File string

	// MaxSizeMB is the size at which the file is rotated (default: 10).
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept (default: 3).
	MaxBackups int

	// Output is the console destination (default: os.Stderr).
	Output io.Writer

	// NoColor disables ANSI colours in the console formatter.
	NoColor bool
}

// New creates a logger from cfg. The returned closer flushes and closes the
// rotating file, if any; it is always non-nil.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	if cfg.Verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: timestampFormat,
		FullTimestamp:   true,
		DisableColors:   cfg.NoColor,
	})

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.File == "" {
		l.SetOutput(out)
		return l, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(out, file))
	return l, file, nil
}

// Discard returns a logger that drops everything. Components use it when
// constructed with a nil logger.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OrDiscard returns l if non-nil, otherwise a discarding logger.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	return Discard()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
