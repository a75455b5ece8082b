package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mschirtzinger/jira-lite/internal/config"
)

func TestNewSink_Discard(t *testing.T) {
	sink := NewSink(config.LogConfig{}, false)
	defer sink.Close()

	if sink.w != io.Discard {
		t.Errorf("writer = %T, want io.Discard", sink.w)
	}
}

func TestNewSink_Stderr(t *testing.T) {
	sink := NewSink(config.LogConfig{}, true)
	defer sink.Close()

	if sink.w != os.Stderr {
		t.Errorf("writer = %T, want os.Stderr", sink.w)
	}
}

func TestNewSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jira.log")
	sink := NewSink(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1}, false)

	sink.Logger("tracker").Printf("Created epic %d", 1)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "[tracker] ") || !strings.Contains(string(data), "Created epic 1") {
		t.Errorf("log file = %q, want prefixed entry", data)
	}
}

func TestSink_Logger(t *testing.T) {
	sink := NewSink(config.LogConfig{}, false)
	logger := sink.Logger("watch")

	if logger.Prefix() != "[watch] " {
		t.Errorf("Prefix() = %q, want %q", logger.Prefix(), "[watch] ")
	}
}
