package db

import (
	"sync"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

// MemoryDatabase keeps the last written State in memory. Read hands back a
// deep copy, so callers mutating the returned state cannot reach the stored
// record.
type MemoryDatabase struct {
	mu     sync.Mutex
	state  *models.State
	writes int
}

// NewMemoryDatabase returns a store holding an empty state.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{state: models.NewState()}
}

// Read implements Database.Read.
func (m *MemoryDatabase) Read() (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

// Write implements Database.Write.
func (m *MemoryDatabase) Write(state *models.State) error {
	if err := checkWritable(state); err != nil {
		return &IOError{Op: "write", Path: "memory", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	m.writes++
	return nil
}

// Writes returns how many successful writes the store has seen.
func (m *MemoryDatabase) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
