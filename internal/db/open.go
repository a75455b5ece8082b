package db

import (
	"fmt"
	"io"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and locates a backend.
type Config struct {
	Backend string
	Path    string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the Database described by cfg together with a Closer that
// releases it. An empty backend means json. For the json backend the store
// file is created empty when missing.
func Open(cfg Config) (Database, io.Closer, error) {
	switch cfg.Backend {
	case "", BackendJSON:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("json backend requires a path")
		}
		if err := EnsureFile(cfg.Path); err != nil {
			return nil, nil, err
		}
		return NewJSONFileDatabase(cfg.Path), nopCloser{}, nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("sqlite backend requires a path")
		}
		d, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return d, d, nil
	case BackendMemory:
		return NewMemoryDatabase(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want %s, %s or %s)", cfg.Backend, BackendJSON, BackendSQLite, BackendMemory)
	}
}
