package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vgenform/pkg/render"
)

// catalog is a locale -> key -> text message table:
//
//	en:
//	  v-gen:form.model.label: Model
//	es:
//	  v-gen:form.model.label: Modelo
type catalog map[string]map[string]string

func loadCatalog(path string) (catalog, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: messages: %w", err)
	}
	var out catalog
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cli: messages %s: %w", path, err)
	}
	return out, nil
}

// Translate returns an empty string for unknown keys so the field's own
// fallback label is used.
func (c catalog) Translate(locale, key string, _ ...any) (string, error) {
	return c[locale][key], nil
}

// renderOptions builds render options for locale with an optional catalogue.
func renderOptions(locale, messages string) (render.RenderOptions, error) {
	opts := render.RenderOptions{Locale: locale}
	msgs, err := loadCatalog(messages)
	if err != nil {
		return opts, err
	}
	if msgs != nil {
		opts.Translator = msgs
	}
	return opts, nil
}
