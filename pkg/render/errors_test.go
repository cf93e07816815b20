package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	t.Parallel()

	got := render.MapErrorPayload(map[string][]string{
		"#/properties/ratio": {"must match pattern", " must match pattern "},
		"/model":             {"is required"},
		"body.prompt":        {"too long"},
		"data[time]":         {"must be one of 5s, 10s"},
		"__all__":            {"queue unavailable"},
		"/unknown":           {"unexpected property"},
		"/style":             {"  "},
	})

	want := render.ErrorMapping{
		Fields: map[model.FieldName][]string{
			model.FieldRatio:  {"must match pattern"},
			model.FieldModel:  {"is required"},
			model.FieldPrompt: {"too long"},
			model.FieldTime:   {"must be one of 5s, 10s"},
		},
		Form: []string{"unexpected property", "queue unavailable"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
	if !got.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
}

func TestMapErrorPayloadEmpty(t *testing.T) {
	t.Parallel()

	if got := render.MapErrorPayload(nil); got.HasErrors() {
		t.Fatalf("expected no errors, got %+v", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	got := render.MergeFormErrors([]string{"a", " b "}, "b", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
