package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

// JSONFileDatabase stores the whole State as one JSON document.
type JSONFileDatabase struct {
	path string
}

// NewJSONFileDatabase returns a database backed by the file at path.
// The file is not touched until Read or Write is called.
func NewJSONFileDatabase(path string) *JSONFileDatabase {
	return &JSONFileDatabase{path: path}
}

// Path returns the backing file path.
func (d *JSONFileDatabase) Path() string {
	return d.path
}

// Read implements Database.Read.
//
// A missing file is an IOError; use EnsureFile to create an empty store.
func (d *JSONFileDatabase) Read() (*models.State, error) {
	// #nosec G304 - path comes from configuration
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: d.path, Err: err}
	}
	return decodeState(d.path, data)
}

// Write implements Database.Write.
//
// The document is written to a temp file in the same directory and renamed
// over the target, so readers see either the old or the new state.
func (d *JSONFileDatabase) Write(state *models.State) error {
	data, err := encodeState(state)
	if err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	return nil
}

// EnsureFile creates path and its parent directory when the file does not
// exist yet. An existing file is left untouched.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &IOError{Op: "stat", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &IOError{Op: "create", Path: path, Err: fmt.Errorf("failed to create directory: %w", err)}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return &IOError{Op: "create", Path: path, Err: err}
	}
	return f.Close()
}
