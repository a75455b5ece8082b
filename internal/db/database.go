// Package db provides whole-state persistence for the tracker.
//
// Every implementation reads and writes the complete State in one call;
// there is no partial or incremental persistence.
//
// Backends:
//   - JSONFileDatabase: the canonical store, a single JSON document on disk
//   - SQLiteDatabase: the same document kept in an embedded SQLite file
//   - MemoryDatabase: an in-process store for tests
package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

// Database loads and saves the aggregate State.
//
// Callers depend on this interface only, never on a concrete backend.
type Database interface {
	// Read returns the persisted state. An empty store yields
	// models.NewState(). Malformed content fails with a *ParseError and an
	// unreachable store with an *IOError; no partial state is returned.
	Read() (*models.State, error)

	// Write replaces the persisted state with state. A nil state or one that
	// fails models.State.Validate is rejected with an *IOError and the store
	// is left unchanged.
	Write(state *models.State) error
}

var errNilState = errors.New("cannot write nil state")

// wireState is the on-disk document. Every field is a pointer so a missing
// or null field can be told apart from a zero value.
type wireState struct {
	LastItemID *uint32               `json:"last_item_id"`
	Epics      *map[uint32]wireEpic  `json:"epics"`
	Stories    *map[uint32]wireStory `json:"stories"`
}

type wireEpic struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"`
	Stories     *[]uint32      `json:"stories"`
}

type wireStory struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"`
}

func missingField(field string) error {
	return fmt.Errorf("missing or null field %q", field)
}

func (w *wireState) toState() (*models.State, error) {
	if w.LastItemID == nil {
		return nil, missingField("last_item_id")
	}
	if w.Epics == nil {
		return nil, missingField("epics")
	}
	if w.Stories == nil {
		return nil, missingField("stories")
	}

	state := &models.State{
		LastItemID: *w.LastItemID,
		Epics:      make(map[uint32]models.Epic, len(*w.Epics)),
		Stories:    make(map[uint32]models.Story, len(*w.Stories)),
	}
	for id, e := range *w.Epics {
		switch {
		case e.Name == nil:
			return nil, missingField(fmt.Sprintf("epics.%d.name", id))
		case e.Description == nil:
			return nil, missingField(fmt.Sprintf("epics.%d.description", id))
		case e.Status == nil:
			return nil, missingField(fmt.Sprintf("epics.%d.status", id))
		case e.Stories == nil:
			return nil, missingField(fmt.Sprintf("epics.%d.stories", id))
		}
		state.Epics[id] = models.Epic{
			Name:        *e.Name,
			Description: *e.Description,
			Status:      *e.Status,
			Stories:     *e.Stories,
		}
	}
	for id, st := range *w.Stories {
		switch {
		case st.Name == nil:
			return nil, missingField(fmt.Sprintf("stories.%d.name", id))
		case st.Description == nil:
			return nil, missingField(fmt.Sprintf("stories.%d.description", id))
		case st.Status == nil:
			return nil, missingField(fmt.Sprintf("stories.%d.status", id))
		}
		state.Stories[id] = models.Story{
			Name:        *st.Name,
			Description: *st.Description,
			Status:      *st.Status,
		}
	}
	return state, nil
}

// decodeState parses a serialized State. Empty or whitespace-only content is
// the default empty state. Anything else must be one complete document with
// every field present and no unknown fields.
func decodeState(source string, data []byte) (*models.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.NewState(), nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, &ParseError{Path: source, Err: errors.New("document is null")}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var wire wireState
	if err := dec.Decode(&wire); err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Path: source, Err: errors.New("unexpected data after document")}
	}

	state, err := wire.toState()
	if err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if err := state.Validate(); err != nil {
		return nil, &ParseError{Path: source, Err: fmt.Errorf("invalid state: %w", err)}
	}
	return state, nil
}

// checkWritable rejects states that could not be read back.
func checkWritable(state *models.State) error {
	if state == nil {
		return errNilState
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid state: %w", err)
	}
	return nil
}

// encodeState serializes a State as indented JSON. The state is cloned first
// so nil collections are written as {} and [] rather than null.
func encodeState(state *models.State) ([]byte, error) {
	if err := checkWritable(state); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(state.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return append(data, '\n'), nil
}
