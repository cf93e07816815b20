package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
	"github.com/goliatone/go-vgenform/pkg/visibility"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestNewViewRendersEveryFieldWithHiddenFlag(t *testing.T) {
	t.Parallel()

	res := visibility.Resolve(model.FormValues{Model: model.ModelGenmo, Prompt: "fog"})
	view := render.NewView(res, render.ErrorMapping{}, false)

	if len(view.Fields) != len(model.AllFields) {
		t.Fatalf("expected %d fields, got %d", len(model.AllFields), len(view.Fields))
	}

	var visible []model.FieldName
	for _, field := range view.VisibleFields() {
		visible = append(visible, field.Name)
	}
	if diff := cmp.Diff([]model.FieldName{model.FieldModel, model.FieldPrompt}, visible); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	style, ok := view.Field(model.FieldStyle)
	if !ok || !style.Hidden {
		t.Fatalf("expected style to be present and hidden, got %+v", style)
	}
	if view.Crop.Gate {
		t.Fatalf("genmo without files should not gate on the crop step")
	}
	if view.SubmitDisabled {
		t.Fatalf("submit should be enabled with a prompt")
	}
}

func TestNewViewSubmitDisabled(t *testing.T) {
	t.Parallel()

	notReady := render.NewView(visibility.Resolve(model.FormValues{Model: model.ModelLuma}), render.ErrorMapping{}, false)
	if !notReady.SubmitDisabled {
		t.Fatalf("expected submit disabled when nothing is entered")
	}

	disabled := render.NewView(visibility.Resolve(model.FormValues{Prompt: "x"}), render.ErrorMapping{}, true)
	if !disabled.SubmitDisabled || !disabled.Disabled {
		t.Fatalf("expected external disabled flag to disable submit")
	}
}

func TestNewViewUsesResolvedRatioOptionsAndErrors(t *testing.T) {
	t.Parallel()

	first := &model.FileHandle{Name: "a.png"}
	res := visibility.Resolve(model.FormValues{Model: model.ModelPika, FirstFile: first})
	errs := render.ErrorMapping{
		Fields: map[model.FieldName][]string{model.FieldRatio: {"is required"}},
		Form:   []string{"try again"},
	}
	view := render.NewView(res, errs, false)

	ratio, _ := view.Field(model.FieldRatio)
	if diff := cmp.Diff(model.PikaRatioOptions, ratio.Options); diff != "" {
		t.Fatalf("ratio options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"is required"}, ratio.Errors); diff != "" {
		t.Fatalf("ratio errors mismatch (-want +got):\n%s", diff)
	}
	if !view.Crop.Gate || view.Crop.FirstFile != first {
		t.Fatalf("expected crop gate with first file, got %+v", view.Crop)
	}
	if diff := cmp.Diff([]string{"try again"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestViewLocalized(t *testing.T) {
	t.Parallel()

	view := render.NewView(visibility.Resolve(model.FormValues{Model: model.ModelKling}), render.ErrorMapping{}, false)
	localized := view.Localized(render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			"v-gen:form.model.label":        "Modelo",
			"v-gen:form.type.options.fast":  "Rápido",
			render.SubmitLabelKey:           "Crear video",
			"v-gen:form.prompt.placeholder": "Describe el video",
		},
	})

	modelField, _ := localized.Field(model.FieldModel)
	if modelField.Label != "Modelo" {
		t.Fatalf("expected translated label, got %q", modelField.Label)
	}
	promptField, _ := localized.Field(model.FieldPrompt)
	if promptField.Label != "Prompt" || promptField.Placeholder != "Describe el video" {
		t.Fatalf("expected fallback label and translated placeholder, got %+v", promptField.Field)
	}
	typeField, _ := localized.Field(model.FieldType)
	var labels []string
	for _, option := range typeField.Options {
		labels = append(labels, option.Label)
	}
	if diff := cmp.Diff([]string{"Standard", "Rápido"}, labels); diff != "" {
		t.Fatalf("option labels mismatch (-want +got):\n%s", diff)
	}
	if localized.SubmitLabel != "Crear video" {
		t.Fatalf("expected translated submit label, got %q", localized.SubmitLabel)
	}

	original, _ := view.Field(model.FieldModel)
	if original.Label == "Modelo" {
		t.Fatalf("Localized must not mutate the receiver")
	}
}

func TestLocalizeFieldsMissingHandler(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{Name: model.FieldModel, Label: "Model", LabelKey: "v-gen:form.model.label"}}
	var missed []string
	render.LocalizeFields(fields, render.RenderOptions{
		OnMissing: func(_ string, key string, _ []any, err error) string {
			if !errors.Is(err, render.ErrMissingTranslator) {
				t.Errorf("expected ErrMissingTranslator, got %v", err)
			}
			missed = append(missed, key)
			return "[" + key + "]"
		},
	})
	if fields[0].Label != "[v-gen:form.model.label]" {
		t.Fatalf("unexpected label %q", fields[0].Label)
	}
	if diff := cmp.Diff([]string{"v-gen:form.model.label"}, missed); diff != "" {
		t.Fatalf("missed keys mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRendererAndRegistry(t *testing.T) {
	t.Parallel()

	registry := render.NewRegistry()
	registry.MustRegister(render.NewJSONRenderer(""))
	if err := registry.Register(render.NewJSONRenderer("  ")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	renderer, err := registry.Negotiate("text/html;q=0.9, application/json", "json")
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if renderer.Name() != "json" {
		t.Fatalf("expected json renderer, got %q", renderer.Name())
	}
	if _, err := registry.Negotiate("text/html", "html"); err == nil {
		t.Fatalf("expected missing fallback error")
	}

	view := render.NewView(visibility.Resolve(model.FormValues{Model: model.ModelGenmo, Prompt: "fog"}), render.ErrorMapping{}, false)
	out, err := renderer.Render(context.Background(), view, render.RenderOptions{
		Action: "/videos",
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "abc")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded struct {
		Action string `json:"action"`
		Fields []struct {
			Name   string `json:"name"`
			Hidden bool   `json:"hidden"`
		} `json:"fields"`
		Hidden []render.HiddenField `json:"hidden"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if decoded.Action != "/videos" || len(decoded.Hidden) != 1 {
		t.Fatalf("unexpected document: %s", out)
	}
	var shown []string
	for _, field := range decoded.Fields {
		if !field.Hidden {
			shown = append(shown, field.Name)
		}
	}
	if got := strings.Join(shown, ","); got != "model,prompt" {
		t.Fatalf("unexpected visible fields %q", got)
	}
}
