package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// Payload is the minimal submission handed to the task queue: field name to
// value, restricted to the fields visible at submit time.
type Payload map[string]any

// Keys returns the payload keys sorted for stable output.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FilterSubmission projects values onto visible. Fields that are not visible
// are dropped even when they still hold a value from an earlier model choice.
// No validation happens here.
func FilterSubmission(values model.FormValues, visible []model.FieldName) Payload {
	payload := make(Payload, len(visible))
	for _, name := range visible {
		value, ok := values.Get(name)
		if !ok {
			continue
		}
		payload[string(name)] = value
	}
	return payload
}

// HiddenField is an extra hidden input emitted alongside the form fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields drops empty names, keeps the last value per name and
// sorts by name for deterministic rendering.
func SortedHiddenFields(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}
