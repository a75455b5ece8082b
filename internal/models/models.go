// Package models defines the epic/story entities and the aggregate State
// that owns them.
package models

import (
	"fmt"
	"math"
	"strings"
)

// Status is the lifecycle stage of an epic or story.
// Any status may be assigned from any other; there is no transition graph.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses lists every status in menu order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// String returns the wire name of the status.
func (s Status) String() string {
	return string(s)
}

// Label returns the display text used in listings.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusInProgress:
		return "IN PROGRESS"
	case StatusResolved:
		return "RESOLVED"
	case StatusClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText rejects unknown statuses so they never reach the store.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, invalidStatus(s)
	}
	return []byte(s), nil
}

// UnmarshalText accepts only the exact wire names.
func (s *Status) UnmarshalText(text []byte) error {
	v := Status(text)
	if !v.IsValid() {
		return fmt.Errorf("%w (must be Open, InProgress, Resolved or Closed)", invalidStatus(v))
	}
	*s = v
	return nil
}

// ParseStatus parses user input into a Status.
// It accepts the wire names in any case, hyphen/underscore/space spellings of
// "in progress", and the menu numbers 1-4.
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)

	switch normalized {
	case "1", "open":
		return StatusOpen, nil
	case "2", "inprogress":
		return StatusInProgress, nil
	case "3", "resolved":
		return StatusResolved, nil
	case "4", "closed":
		return StatusClosed, nil
	}
	return "", fmt.Errorf("unknown status %q (want open, in-progress, resolved, closed or 1-4)", input)
}

// Story is a leaf unit of work. Its identity is the key it is stored under in
// State.Stories.
type Story struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Status      Status `json:"status" yaml:"status"`
}

// NewStory returns an open story.
func NewStory(name, description string) Story {
	return Story{Name: name, Description: description, Status: StatusOpen}
}

// Epic is a top-level unit of work. Stories holds the ids of its stories in
// creation order; the Story records live in State.Stories.
type Epic struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Status      Status   `json:"status" yaml:"status"`
	Stories     []uint32 `json:"stories" yaml:"stories"`
}

// NewEpic returns an open epic with no stories.
func NewEpic(name, description string) Epic {
	return Epic{Name: name, Description: description, Status: StatusOpen, Stories: []uint32{}}
}

// State is the aggregate root: every epic, every story, and the id counter
// shared between them.
type State struct {
	LastItemID uint32           `json:"last_item_id" yaml:"last_item_id"`
	Epics      map[uint32]Epic  `json:"epics" yaml:"epics"`
	Stories    map[uint32]Story `json:"stories" yaml:"stories"`
}

// NewState returns an empty state with the counter at zero.
func NewState() *State {
	return &State{
		Epics:   map[uint32]Epic{},
		Stories: map[uint32]Story{},
	}
}

// Normalize replaces nil collections with empty ones, as left by a
// zero-value State or a hand-built literal.
func (s *State) Normalize() {
	if s.Epics == nil {
		s.Epics = map[uint32]Epic{}
	}
	if s.Stories == nil {
		s.Stories = map[uint32]Story{}
	}
	for id, epic := range s.Epics {
		if epic.Stories == nil {
			epic.Stories = []uint32{}
			s.Epics[id] = epic
		}
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		LastItemID: s.LastItemID,
		Epics:      make(map[uint32]Epic, len(s.Epics)),
		Stories:    make(map[uint32]Story, len(s.Stories)),
	}
	for id, epic := range s.Epics {
		stories := make([]uint32, len(epic.Stories))
		copy(stories, epic.Stories)
		epic.Stories = stories
		out.Epics[id] = epic
	}
	for id, story := range s.Stories {
		out.Stories[id] = story
	}
	return out
}

// Validate checks the referential invariants of a persisted state.
//
// A counter at math.MaxUint32 is rejected: the next allocation would wrap
// and hand out ids that are already in use.
func (s *State) Validate() error {
	if s.LastItemID == math.MaxUint32 {
		return fmt.Errorf("id space exhausted (last_item_id %d)", s.LastItemID)
	}
	for id, epic := range s.Epics {
		if id > s.LastItemID {
			return fmt.Errorf("epic %d exceeds last_item_id %d", id, s.LastItemID)
		}
		if _, ok := s.Stories[id]; ok {
			return fmt.Errorf("id %d is used by both an epic and a story", id)
		}
		if !epic.Status.IsValid() {
			return fmt.Errorf("epic %d has invalid status %q", id, epic.Status)
		}
	}

	owner := make(map[uint32]uint32, len(s.Stories))
	for epicID, epic := range s.Epics {
		for _, storyID := range epic.Stories {
			if _, ok := s.Stories[storyID]; !ok {
				return fmt.Errorf("epic %d references missing story %d", epicID, storyID)
			}
			if prev, ok := owner[storyID]; ok {
				return fmt.Errorf("story %d is listed by epic %d and epic %d", storyID, prev, epicID)
			}
			owner[storyID] = epicID
		}
	}

	for id, story := range s.Stories {
		if id > s.LastItemID {
			return fmt.Errorf("story %d exceeds last_item_id %d", id, s.LastItemID)
		}
		if !story.Status.IsValid() {
			return fmt.Errorf("story %d has invalid status %q", id, story.Status)
		}
	}
	return nil
}
