// Package tui drives the video form from a terminal. A Session walks the
// catalogue in render order, prompting only for fields the current
// resolution shows, and submits through the form controller; the ratio step
// runs through CropWidget.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/form"
	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// maxAttempts bounds the correction rounds after validation failures.
const maxAttempts = 3

// Session is one interactive pass over a form controller.
type Session struct {
	controller    *form.Controller
	driver        PromptDriver
	renderOptions render.RenderOptions
	files         FileResolver
	theme         Theme
	confirm       bool
}

// NewSession builds a session. The default driver is survey on stdout.
func NewSession(controller *form.Controller, options ...Option) *Session {
	s := &Session{
		controller: controller,
		files:      LocalFile,
		confirm:    true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Driver returns the prompt driver, so callers can share it with a CropWidget.
func (s *Session) Driver() PromptDriver { return s.driver }

// Run prompts every visible field, then submits. Validation failures are
// shown and the affected fields prompted again.
func (s *Session) Run(ctx context.Context) (form.SubmitResult, error) {
	if s.controller == nil {
		return form.SubmitResult{}, errors.New("tui: form controller is required")
	}

	if err := s.promptFields(ctx, nil); err != nil {
		return form.SubmitResult{}, err
	}

	for attempt := 1; ; attempt++ {
		if !s.controller.CanSubmit() {
			return form.SubmitResult{}, s.info(ctx, "Nothing to submit: attach a file or write a prompt.")
		}
		if s.confirm {
			if err := s.printSummary(ctx); err != nil {
				return form.SubmitResult{}, err
			}
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.submitLabel(), Default: true})
			if err != nil {
				return form.SubmitResult{}, err
			}
			if !ok {
				return form.SubmitResult{}, nil
			}
		}

		result, err := s.controller.Submit(ctx)
		if err != nil || result.Submitted || !result.Errors.HasErrors() {
			return result, err
		}

		for _, message := range result.Errors.Form {
			if err := s.failure(ctx, message); err != nil {
				return result, err
			}
		}
		if attempt >= maxAttempts {
			return result, nil
		}
		retry := make(map[model.FieldName]bool, len(result.Errors.Fields))
		for name, messages := range result.Errors.Fields {
			retry[name] = true
			for _, message := range messages {
				if err := s.failure(ctx, fmt.Sprintf("%s: %s", name, message)); err != nil {
					return result, err
				}
			}
		}
		if err := s.promptFields(ctx, retry); err != nil {
			return result, err
		}
	}
}

// promptFields walks the catalogue, re-reading the view before each field
// because earlier answers change what is visible. When only is non-nil the
// walk is limited to those fields.
func (s *Session) promptFields(ctx context.Context, only map[model.FieldName]bool) error {
	for _, name := range catalogueOrder() {
		if only != nil && !only[name] {
			continue
		}
		view := s.controller.View().Localized(s.renderOptions)
		field, ok := view.Field(name)
		if !ok || field.Hidden || field.Kind == model.InputFrame {
			continue
		}
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field render.FieldView) error {
	switch field.Kind {
	case model.InputSelect:
		return s.promptSelect(ctx, field)
	case model.InputTextarea:
		current, _ := field.Value.(string)
		text, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: current,
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return s.controller.Set(field.Name, strings.TrimRight(text, "\n"))
	case model.InputFile:
		return s.promptFile(ctx, field)
	default:
		return nil
	}
}

func (s *Session) promptSelect(ctx context.Context, field render.FieldView) error {
	current, _ := field.Value.(string)
	labels := make([]string, 0, len(field.Options)+1)
	labels = append(labels, "(none)")
	defaultIndex := 0
	for i, option := range field.Options {
		labels = append(labels, option.Label)
		if option.Value == current {
			defaultIndex = i + 1
		}
	}

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         field.HelpText,
			PageSize:     10,
		})
		if err != nil {
			return err
		}
		switch {
		case idx == 0:
			return s.controller.Set(field.Name, "")
		case idx > 0 && idx <= len(field.Options):
			return s.controller.Set(field.Name, field.Options[idx-1].Value)
		}
		if err := s.failure(ctx, fmt.Sprintf("Invalid %s selection", field.Name)); err != nil {
			return err
		}
	}
}

func (s *Session) promptFile(ctx context.Context, field render.FieldView) error {
	current := ""
	if handle, ok := field.Value.(*model.FileHandle); ok && handle != nil {
		current = strings.TrimPrefix(handle.Ref, "file://")
	}

	for {
		path, err := s.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
			Help:    "Path to an image, empty for none",
		})
		if err != nil {
			return err
		}
		handle, err := s.files(path)
		if err != nil {
			if infoErr := s.failure(ctx, err.Error()); infoErr != nil {
				return infoErr
			}
			continue
		}
		if handle == nil {
			return s.controller.Set(field.Name, nil)
		}
		return s.controller.Set(field.Name, handle)
	}
}

func (s *Session) printSummary(ctx context.Context) error {
	summary, err := NewTextRenderer().Render(ctx, s.controller.View(), s.renderOptions)
	if err != nil {
		return err
	}
	return s.info(ctx, strings.TrimRight(string(summary), "\n"))
}

func (s *Session) submitLabel() string {
	return render.Translate(s.renderOptions, render.SubmitLabelKey, "Create video") + "?"
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) failure(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

func catalogueOrder() []model.FieldName {
	fields := model.VideoFormFields()
	out := make([]model.FieldName, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}
