package form

import "errors"

var (
	// ErrNoCropWidget is returned when submission needs the ratio step but no
	// crop widget is configured.
	ErrNoCropWidget = errors.New("form: crop widget not configured")
	// ErrNoSink is returned when a valid submission has nowhere to go.
	ErrNoSink = errors.New("form: task sink not configured")
	// ErrMounted is returned by a second Mount; drafts seed the form once.
	ErrMounted = errors.New("form: already mounted")
	// ErrNoRatioStep is returned by ConfirmCrop when the current resolution
	// does not gate submission behind the ratio step.
	ErrNoRatioStep = errors.New("form: ratio step not required")
)
