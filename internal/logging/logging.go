// Package logging builds the prefixed *log.Logger instances used across the
// tracker.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mschirtzinger/jira-lite/internal/config"
)

// Sink is the shared destination for every component logger.
type Sink struct {
	w      io.Writer
	closer io.Closer
}

// NewSink returns the log destination described by cfg.
//
// With a log file configured, output goes to a rotating file (and also to
// stderr when verbose is set). Without one, output goes to stderr when
// verbose is set and is discarded otherwise.
func NewSink(cfg config.LogConfig, verbose bool) *Sink {
	if cfg.File == "" {
		if verbose {
			return &Sink{w: os.Stderr}
		}
		return &Sink{w: io.Discard}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	var w io.Writer = rotator
	if verbose {
		w = io.MultiWriter(rotator, os.Stderr)
	}
	return &Sink{w: w, closer: rotator}
}

// Logger returns a logger writing to the sink with a "[component] " prefix.
func (s *Sink) Logger(component string) *log.Logger {
	return log.New(s.w, "["+component+"] ", log.LstdFlags)
}

// Close releases the log file, if any.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
