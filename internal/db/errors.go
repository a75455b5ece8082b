package db

import (
	"errors"
	"fmt"
)

// Errors returned by Database implementations.
//
// Both are fatal for a command: the in-memory state cannot be trusted after a
// failed read, and a failed write means the change was not persisted.
//
//	if db.IsFatal(err) {
//	    // stop; do not run further commands against this state
//	}
var (
	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("malformed store content")

	// ErrIO is matched by every IOError.
	ErrIO = errors.New("store unavailable")
)

// ParseError reports store content that is not a well-formed State.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError reports a backing store that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// IsFatal returns true for errors that invalidate the loaded state or mean a
// write was lost. Lookup failures such as models.ErrNotFound are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrParse) || errors.Is(err, ErrIO)
}
