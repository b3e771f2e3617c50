package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoVariant is returned when a render starts from a snapshot without a
	// schema variant.
	ErrNoVariant = errors.New("tui: snapshot has no variant")
)
