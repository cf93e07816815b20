package form

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// State holds the form values and the validation errors keyed by field name.
// It is safe for concurrent use; visibility logic lives in the Controller.
type State struct {
	mu     sync.RWMutex
	values model.FormValues
	errors map[model.FieldName][]string
	form   []string
}

// NewState seeds the state with values.
func NewState(values model.FormValues) *State {
	return &State{
		values: values.Clone(),
		errors: make(map[model.FieldName][]string),
	}
}

// Values returns a copy of the current record.
func (s *State) Values() model.FormValues {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Get returns the value of a single field.
func (s *State) Get(name model.FieldName) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Get(name)
}

// Set writes one field.
func (s *State) Set(name model.FieldName, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.values.Set(name, value); err != nil {
		return fmt.Errorf("form: %w", err)
	}
	return nil
}

// Replace swaps the whole record, used to apply resolver resets.
func (s *State) Replace(values model.FormValues) {
	s.mu.Lock()
	s.values = values.Clone()
	s.mu.Unlock()
}

// Watch returns the current values of names, in order. Unknown names yield
// nil.
func (s *State) Watch(names ...model.FieldName) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, len(names))
	for i, name := range names {
		out[i], _ = s.values.Get(name)
	}
	return out
}

// Errors returns a copy of the error map.
func (s *State) Errors() map[model.FieldName][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneErrors(s.errors)
}

// ErrorsFor returns the messages attached to name.
func (s *State) ErrorsFor(name model.FieldName) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.errors[name]...)
}

// SetErrors replaces the error map.
func (s *State) SetErrors(errs map[model.FieldName][]string) {
	s.mu.Lock()
	s.errors = cloneErrors(errs)
	s.mu.Unlock()
}

// FormErrors returns the messages not tied to a visible field.
func (s *State) FormErrors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.form...)
}

// SetFormErrors replaces the form-level messages. Blank and repeated
// messages are dropped.
func (s *State) SetFormErrors(messages []string) {
	merged := render.MergeFormErrors(nil, messages...)
	s.mu.Lock()
	s.form = merged
	s.mu.Unlock()
}

// ClearErrors drops every field and form-level error.
func (s *State) ClearErrors() {
	s.SetErrors(nil)
	s.SetFormErrors(nil)
}

func cloneErrors(src map[model.FieldName][]string) map[model.FieldName][]string {
	out := make(map[model.FieldName][]string, len(src))
	for k, v := range src {
		if len(v) == 0 {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}
