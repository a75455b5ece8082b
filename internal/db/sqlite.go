package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

var errClosed = errors.New("database is closed")

// SQLiteDatabase keeps the serialized State in a single-row table of an
// embedded SQLite file. Every Write replaces the whole document.
type SQLiteDatabase struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and initializes the
// schema.
//
// The caller MUST call Close() when done.
func OpenSQLite(path string) (*SQLiteDatabase, error) {
	return OpenSQLiteContext(context.Background(), path)
}

// OpenSQLiteContext is OpenSQLite with context support.
func OpenSQLiteContext(ctx context.Context, path string) (*SQLiteDatabase, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: fmt.Errorf("failed to create database directory: %w", err)}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, &IOError{Op: "open", Path: path, Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	d := &SQLiteDatabase{conn: conn, path: path}

	if _, err := d.conn.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = d.Close()
		return nil, &IOError{Op: "open", Path: path, Err: fmt.Errorf("failed to set busy timeout: %w", err)}
	}
	if err := d.initSchema(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func (d *SQLiteDatabase) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := d.conn.ExecContext(ctx, schema); err != nil {
		return &IOError{Op: "initialize", Path: d.path, Err: fmt.Errorf("failed to initialize schema: %w", err)}
	}
	return nil
}

// Path returns the database file path.
func (d *SQLiteDatabase) Path() string {
	return d.path
}

// Read implements Database.Read. A database without a state row yields the
// default empty state.
func (d *SQLiteDatabase) Read() (*models.State, error) {
	return d.ReadContext(context.Background())
}

// ReadContext is Read with context support.
func (d *SQLiteDatabase) ReadContext(ctx context.Context) (*models.State, error) {
	if d.conn == nil {
		return nil, &IOError{Op: "read", Path: d.path, Err: errClosed}
	}
	var data string
	err := d.conn.QueryRowContext(ctx, `SELECT data FROM state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: d.path, Err: err}
	}
	return decodeState(d.path, []byte(data))
}

// Write implements Database.Write.
func (d *SQLiteDatabase) Write(state *models.State) error {
	return d.WriteContext(context.Background(), state)
}

// WriteContext is Write with context support.
func (d *SQLiteDatabase) WriteContext(ctx context.Context, state *models.State) error {
	if d.conn == nil {
		return &IOError{Op: "write", Path: d.path, Err: errClosed}
	}
	data, err := encodeState(state)
	if err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}

	query := `
	INSERT INTO state (id, data, updated_at) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at
	`
	if _, err := d.conn.ExecContext(ctx, query, string(data), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	return nil
}

// Close closes the database connection.
func (d *SQLiteDatabase) Close() error {
	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.conn = nil
	return nil
}
