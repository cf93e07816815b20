package render

import "errors"

// ErrMissingTranslator is passed to MissingTranslationHandler when a key needs
// translating but no Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a translation key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler produces the string used when a key cannot be
// translated. args carries a map with the "default" fallback; the default
// handler returns it, or the key when no fallback was supplied.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form state.
type RenderOptions struct {
	// Action is the form action URL. Empty renders no action attribute.
	Action string
	// Locale selects the translation locale for labels and options.
	Locale string
	// Translator resolves the *Key hints of the field catalogue.
	Translator Translator
	// OnMissing overrides the fallback used when a key is not translated.
	OnMissing MissingTranslationHandler
	// Hidden adds extra hidden inputs (CSRF token, draft id) to the form.
	Hidden []HiddenField
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := values["default"].(string); ok {
			return fallback
		}
	}
	return key
}
