package tui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted by user")

// ConfirmQuery asks whether the query announced by a should be executed.
func ConfirmQuery(a domain.DatabaseAlert) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	note := huh.NewNote().
		Title(a.Title).
		Description(a.Description + "\n\n" + a.Content)

	confirm := false
	confirmField := huh.NewConfirm().
		Title("Run this query against the project database?").
		Affirmative("Yes, run it").
		Negative("Reject").
		Value(&confirm)

	if err := runForm(accessible, huh.NewGroup(note, confirmField)); err != nil {
		return false, err
	}
	return confirm, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
