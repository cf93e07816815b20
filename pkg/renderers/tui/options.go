package tui

import (
	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// Theme captures optional prefixes applied to messages the session prints.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileResolver turns a path typed by the user into a file handle.
type FileResolver func(path string) (*model.FileHandle, error)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithRenderOptions sets the locale and translator used for prompt labels.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Session) {
		s.renderOptions = opts
	}
}

// WithFileResolver overrides how file paths become handles.
func WithFileResolver(resolver FileResolver) Option {
	return func(s *Session) {
		if resolver != nil {
			s.files = resolver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithConfirm asks for confirmation before submitting.
func WithConfirm(confirm bool) Option {
	return func(s *Session) {
		s.confirm = confirm
	}
}
