package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer emits the localised view as JSON. Client-side widgets consume
// it to draw the form with their own components.
type JSONRenderer struct {
	indent string
}

// NewJSONRenderer returns a JSON renderer. A non-empty indent pretty prints.
func NewJSONRenderer(indent string) *JSONRenderer {
	return &JSONRenderer{indent: indent}
}

func (r *JSONRenderer) Name() string { return "json" }

func (r *JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (r *JSONRenderer) Render(_ context.Context, view View, options RenderOptions) ([]byte, error) {
	document := struct {
		View
		Action string        `json:"action,omitempty"`
		Hidden []HiddenField `json:"hidden,omitempty"`
	}{
		View:   view.Localized(options),
		Action: options.Action,
		Hidden: SortedHiddenFields(options.Hidden),
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(document, "", r.indent)
	} else {
		out, err = json.Marshal(document)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode json view: %w", err)
	}
	return out, nil
}
