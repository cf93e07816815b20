package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFile is returned by the default file resolver for paths that do not
	// point at a regular file.
	ErrNoFile = errors.New("tui: not a regular file")
)
