package models

import (
	"slices"
	"sort"
)

// nextID advances the shared counter. Epic and story ids come from the same
// sequence and are never reused. A counter at math.MaxUint32 would wrap;
// Validate rejects it, so such a state is never stored or read back.
func (s *State) nextID() uint32 {
	s.LastItemID++
	return s.LastItemID
}

// AddEpic stores epic under a fresh id and returns the id.
func (s *State) AddEpic(epic Epic) uint32 {
	if s.Epics == nil {
		s.Normalize()
	}
	if epic.Stories == nil {
		epic.Stories = []uint32{}
	}
	id := s.nextID()
	s.Epics[id] = epic
	return id
}

// UpdateEpicStatus overwrites the status of an existing epic. An unknown
// status is rejected with ErrInvalidStatus and nothing changes.
func (s *State) UpdateEpicStatus(epicID uint32, status Status) error {
	epic, ok := s.Epics[epicID]
	if !ok {
		return epicNotFound(epicID)
	}
	if !status.IsValid() {
		return invalidStatus(status)
	}
	epic.Status = status
	s.Epics[epicID] = epic
	return nil
}

// DeleteEpic removes an epic together with every story it lists.
// A missing epic leaves the state untouched.
func (s *State) DeleteEpic(epicID uint32) error {
	epic, ok := s.Epics[epicID]
	if !ok {
		return epicNotFound(epicID)
	}
	for _, storyID := range epic.Stories {
		delete(s.Stories, storyID)
	}
	delete(s.Epics, epicID)
	return nil
}

// AddStory stores story under a fresh id and appends the id to its epic.
// The counter is not advanced when the epic does not exist.
func (s *State) AddStory(story Story, epicID uint32) (uint32, error) {
	epic, ok := s.Epics[epicID]
	if !ok {
		return 0, epicNotFound(epicID)
	}
	if s.Stories == nil {
		s.Stories = map[uint32]Story{}
	}
	id := s.nextID()
	s.Stories[id] = story
	epic.Stories = append(epic.Stories, id)
	s.Epics[epicID] = epic
	return id, nil
}

// UpdateStoryStatus overwrites the status of an existing story. An unknown
// status is rejected with ErrInvalidStatus and nothing changes.
func (s *State) UpdateStoryStatus(storyID uint32, status Status) error {
	story, ok := s.Stories[storyID]
	if !ok {
		return storyNotFound(storyID)
	}
	if !status.IsValid() {
		return invalidStatus(status)
	}
	story.Status = status
	s.Stories[storyID] = story
	return nil
}

// DeleteStory removes a story and unlinks it from its epic.
//
// Both ids are resolved before anything changes: the story is checked first,
// then the epic, so a wrong epic id leaves the story in place.
func (s *State) DeleteStory(epicID, storyID uint32) error {
	if _, ok := s.Stories[storyID]; !ok {
		return storyNotFound(storyID)
	}
	epic, ok := s.Epics[epicID]
	if !ok {
		return epicNotFound(epicID)
	}

	delete(s.Stories, storyID)
	epic.Stories = slices.DeleteFunc(epic.Stories, func(id uint32) bool {
		return id == storyID
	})
	s.Epics[epicID] = epic
	return nil
}

// Epic returns the epic stored under id.
func (s *State) Epic(id uint32) (Epic, error) {
	epic, ok := s.Epics[id]
	if !ok {
		return Epic{}, epicNotFound(id)
	}
	return epic, nil
}

// Story returns the story stored under id.
func (s *State) Story(id uint32) (Story, error) {
	story, ok := s.Stories[id]
	if !ok {
		return Story{}, storyNotFound(id)
	}
	return story, nil
}

// EpicIDs returns every epic id in ascending order.
func (s *State) EpicIDs() []uint32 {
	ids := make([]uint32, 0, len(s.Epics))
	for id := range s.Epics {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StoryRef pairs a story with its id.
type StoryRef struct {
	ID    uint32
	Story Story
}

// StoriesOf returns the stories of an epic in the epic's order.
func (s *State) StoriesOf(epicID uint32) ([]StoryRef, error) {
	epic, ok := s.Epics[epicID]
	if !ok {
		return nil, epicNotFound(epicID)
	}
	refs := make([]StoryRef, 0, len(epic.Stories))
	for _, id := range epic.Stories {
		story, ok := s.Stories[id]
		if !ok {
			continue
		}
		refs = append(refs, StoryRef{ID: id, Story: story})
	}
	return refs, nil
}

// EpicOf returns the id of the epic listing storyID.
func (s *State) EpicOf(storyID uint32) (uint32, bool) {
	for epicID, epic := range s.Epics {
		if slices.Contains(epic.Stories, storyID) {
			return epicID, true
		}
	}
	return 0, false
}
