package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidSubmission is returned when the collected values still fail
	// form validation after prompting.
	ErrInvalidSubmission = errors.New("tui: submission is invalid")
)
