package render

import (
	"strings"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// LocalizeFields translates the *Key hints of each field (label, placeholder,
// help text, option labels) in place. Missing translations go through
// opts.OnMissing, which defaults to keeping the catalogue's fallback text.
func LocalizeFields(fields []model.Field, opts RenderOptions) {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	for i := range fields {
		field := &fields[i]
		field.Label = translate(opts.Locale, field.LabelKey, field.Label, opts.Translator, onMissing)
		field.Placeholder = translate(opts.Locale, field.PlaceholderKey, field.Placeholder, opts.Translator, onMissing)
		field.HelpText = translate(opts.Locale, field.HelpTextKey, field.HelpText, opts.Translator, onMissing)
		LocalizeOptions(field.Options, opts)
	}
}

// LocalizeOptions translates option labels carrying a LabelKey in place.
func LocalizeOptions(options []model.Option, opts RenderOptions) {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	for i := range options {
		options[i].Label = translate(opts.Locale, options[i].LabelKey, options[i].Label, opts.Translator, onMissing)
	}
}

// Translate resolves a single key with the same fallback rules as
// LocalizeFields.
func Translate(opts RenderOptions, key, fallback string) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}
