package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError:
//
//	if errors.Is(err, models.ErrNotFound) {
//	    // report and continue; nothing was mutated
//	}
var ErrNotFound = errors.New("not found")

// ErrInvalidStatus is wrapped by every error about a status outside the four
// known values.
var ErrInvalidStatus = errors.New("invalid status")

// Kinds of item a NotFoundError can refer to.
const (
	KindEpic  = "epic"
	KindStory = "story"
)

// NotFoundError reports a referenced epic or story id that does not exist.
type NotFoundError struct {
	Kind string
	ID   uint32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func epicNotFound(id uint32) error {
	return &NotFoundError{Kind: KindEpic, ID: id}
}

func storyNotFound(id uint32) error {
	return &NotFoundError{Kind: KindStory, ID: id}
}

func invalidStatus(s Status) error {
	return fmt.Errorf("%w %q", ErrInvalidStatus, string(s))
}
