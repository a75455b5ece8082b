// Package tracker runs tracker commands against a db.Database.
//
// Each method is one load-mutate-save cycle: the state is read in full, at
// most one mutation is applied, and the state is written back only when the
// mutation succeeded. A failed mutation is returned without writing.
package tracker

import (
	"fmt"
	"log"
	"os"

	"github.com/mschirtzinger/jira-lite/internal/db"
	"github.com/mschirtzinger/jira-lite/internal/models"
)

// Tracker drives the mutation engine through a Database.
type Tracker struct {
	database db.Database
	logger   *log.Logger
}

// New creates a Tracker over database.
//
// If logger is nil, a default logger writing to stderr is used.
func New(database db.Database, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(os.Stderr, "[tracker] ", log.LstdFlags)
	}
	return &Tracker{database: database, logger: logger}
}

// ReadDB returns the current state without modifying it.
func (t *Tracker) ReadDB() (*models.State, error) {
	state, err := t.database.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state, nil
}

// update loads the state, applies fn and persists the result. Nothing is
// written when fn fails.
func (t *Tracker) update(fn func(*models.State) error) error {
	state, err := t.ReadDB()
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	if err := t.database.Write(state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// CreateEpic stores a new epic and returns its id.
func (t *Tracker) CreateEpic(epic models.Epic) (uint32, error) {
	var id uint32
	err := t.update(func(s *models.State) error {
		id = s.AddEpic(epic)
		return nil
	})
	if err != nil {
		return 0, err
	}
	t.logger.Printf("Created epic %d (%s)", id, epic.Name)
	return id, nil
}

// CreateStory stores a new story under epicID and returns its id.
func (t *Tracker) CreateStory(story models.Story, epicID uint32) (uint32, error) {
	var id uint32
	err := t.update(func(s *models.State) error {
		var err error
		id, err = s.AddStory(story, epicID)
		return err
	})
	if err != nil {
		return 0, err
	}
	t.logger.Printf("Created story %d (%s) in epic %d", id, story.Name, epicID)
	return id, nil
}

// UpdateEpicStatus sets the status of an epic.
func (t *Tracker) UpdateEpicStatus(epicID uint32, status models.Status) error {
	if err := t.update(func(s *models.State) error {
		return s.UpdateEpicStatus(epicID, status)
	}); err != nil {
		return err
	}
	t.logger.Printf("Epic %d status -> %s", epicID, status)
	return nil
}

// UpdateStoryStatus sets the status of a story.
func (t *Tracker) UpdateStoryStatus(storyID uint32, status models.Status) error {
	if err := t.update(func(s *models.State) error {
		return s.UpdateStoryStatus(storyID, status)
	}); err != nil {
		return err
	}
	t.logger.Printf("Story %d status -> %s", storyID, status)
	return nil
}

// DeleteEpic removes an epic and all of its stories.
func (t *Tracker) DeleteEpic(epicID uint32) error {
	var removed int
	if err := t.update(func(s *models.State) error {
		if epic, ok := s.Epics[epicID]; ok {
			removed = len(epic.Stories)
		}
		return s.DeleteEpic(epicID)
	}); err != nil {
		return err
	}
	t.logger.Printf("Deleted epic %d and %d stories", epicID, removed)
	return nil
}

// DeleteStory removes a story from an epic.
func (t *Tracker) DeleteStory(epicID, storyID uint32) error {
	if err := t.update(func(s *models.State) error {
		return s.DeleteStory(epicID, storyID)
	}); err != nil {
		return err
	}
	t.logger.Printf("Deleted story %d from epic %d", storyID, epicID)
	return nil
}
