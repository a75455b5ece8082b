package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var errNotConfirmed = errors.New("deletion not confirmed")

// confirmDelete asks before a deletion. With --yes the prompt is skipped.
// Without a terminal there is nobody to ask, so the deletion is refused
// unless --yes was given. errNotConfirmed means the user declined.
func confirmDelete(yes bool, title, description string) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal, pass --yes to delete")
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errNotConfirmed
	}
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}
