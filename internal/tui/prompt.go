package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrNotInteractive is returned by prompts when no terminal is attached.
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// ConfirmFn is the prompt used by Confirm. Tests replace it.
var ConfirmFn = runConfirm

// Confirm asks a yes/no question. It fails with ErrNotInteractive instead of
// blocking when no terminal is attached.
func Confirm(title, description string) (bool, error) {
	if !IsInteractive() {
		return false, ErrNotInteractive
	}
	return ConfirmFn(title, description)
}

func runConfirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(currentThemeOrDefault())

	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// WithSpinner runs fn behind a spinner titled title. Without a terminal fn
// simply runs in the foreground.
func WithSpinner(ctx context.Context, title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	var fnErr error
	err := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() { fnErr = fn() }).
		Run()
	if err != nil {
		return err
	}
	return fnErr
}
