package html_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
	"github.com/goliatone/go-vgenform/pkg/renderers/html"
	"github.com/goliatone/go-vgenform/pkg/visibility"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", nil
}

func renderValues(t *testing.T, values model.FormValues, errs render.ErrorMapping, opts render.RenderOptions, options ...html.Option) string {
	t.Helper()
	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	view := render.NewView(visibility.Resolve(values), errs, false)
	out, err := renderer.Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func fieldMarkup(t *testing.T, output, name string) string {
	t.Helper()
	marker := `data-field="` + name + `"`
	start := strings.Index(output, marker)
	if start < 0 {
		t.Fatalf("field %s not rendered:\n%s", name, output)
	}
	open := strings.LastIndex(output[:start], "<div")
	end := strings.Index(output[start:], "</div>")
	return output[open : start+end]
}

func TestRenderEmitsEveryFieldWithHiddenFlag(t *testing.T) {
	t.Parallel()

	output := renderValues(t, model.FormValues{Model: model.ModelGenmo, Prompt: "fog", Style: "anime"}, render.ErrorMapping{}, render.RenderOptions{})

	for _, name := range model.AllFields {
		markup := fieldMarkup(t, output, string(name))
		hidden := strings.Contains(markup, " hidden aria-hidden=\"true\"")
		wantHidden := name != model.FieldModel && name != model.FieldPrompt
		if hidden != wantHidden {
			t.Fatalf("field %s hidden=%v, want %v:\n%s", name, hidden, wantHidden, markup)
		}
	}

	style := fieldMarkup(t, output, "style")
	if !strings.Contains(style, "disabled") {
		t.Fatalf("hidden select must be disabled:\n%s", style)
	}
	if !strings.Contains(output, `data-mode="direct"`) {
		t.Fatalf("expected direct mode:\n%s", output)
	}
	if strings.Contains(output, `class="vgen-crop"`) {
		t.Fatalf("crop step must not render in direct mode")
	}
	if !strings.Contains(output, ">fog</textarea>") {
		t.Fatalf("expected prompt value:\n%s", output)
	}
}

func TestRenderRatioGateAndSubmitState(t *testing.T) {
	t.Parallel()

	output := renderValues(t, model.FormValues{
		Model:     model.ModelRunway,
		FirstFile: &model.FileHandle{Name: "city.png"},
	}, render.ErrorMapping{}, render.RenderOptions{Action: "/videos"})

	for _, want := range []string{
		`action="/videos"`,
		`data-mode="ratio-gate"`,
		`data-resize="true"`,
		`value="1280:768"`,
		`data-slot="first">city.png`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, `<button type="submit" disabled`) {
		t.Fatalf("submit should be enabled with a file attached")
	}
	if got := strings.Count(output, "<button"); got != 1 {
		t.Fatalf("expected a single submit control, got %d:\n%s", got, output)
	}
	confirm := strings.Index(output, `<button type="submit" class="vgen-crop__confirm"`)
	if confirm < 0 || confirm > strings.Index(output, "</fieldset>") {
		t.Fatalf("expected the confirm button inside the crop fieldset:\n%s", output)
	}

	empty := renderValues(t, model.FormValues{Model: model.ModelLuma}, render.ErrorMapping{}, render.RenderOptions{})
	if !strings.Contains(empty, `<button type="submit" disabled>`) {
		t.Fatalf("expected disabled submit when not ready:\n%s", empty)
	}
	if strings.Contains(empty, "vgen-crop") {
		t.Fatalf("direct mode renders no crop step:\n%s", empty)
	}
}

func TestRenderLocalizesSanitizesAndShowsErrors(t *testing.T) {
	t.Parallel()

	output := renderValues(t,
		model.FormValues{Model: model.ModelKling, Prompt: "x"},
		render.ErrorMapping{
			Fields: map[model.FieldName][]string{model.FieldRatio: {"is required"}},
			Form:   []string{"queue <busy>"},
		},
		render.RenderOptions{
			Locale: "es",
			Translator: stubTranslator{
				"v-gen:form.model.label":    "Modelo",
				"v-gen:form.firstFile.help": `Sube una <em>imagen</em><script>alert(1)</script>`,
				render.SubmitLabelKey:       "Crear video",
			},
			Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
		},
	)

	for _, want := range []string{
		`lang="es"`,
		`>Modelo</label>`,
		`Sube una <em>imagen</em>`,
		`>Crear video</button>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`queue &lt;busy&gt;`,
		`role="alert">is required</p>`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "<script>") {
		t.Fatalf("help text was not sanitised:\n%s", output)
	}
}

func TestRenderAppliesTheme(t *testing.T) {
	t.Parallel()

	selection := &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456", "radius": "4px"},
			Assets: theme.Assets{
				Prefix: "/assets/themes/acme",
				Files:  map[string]string{html.StylesheetAsset: "form.css"},
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}
	cfg := html.ThemeFromSelection(selection)
	if cfg.CSSVars["--brand"] != "#654321" || cfg.CSSVars["--radius"] != "4px" {
		t.Fatalf("unexpected css vars %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL(html.StylesheetAsset); got != "/assets/themes/acme/form.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}

	output := renderValues(t, model.FormValues{Prompt: "x"}, render.ErrorMapping{}, render.RenderOptions{}, html.WithTheme(cfg))
	for _, want := range []string{
		`<link rel="stylesheet" href="/assets/themes/acme/form.css">`,
		`--brand: #654321;`,
		`data-theme="acme"`,
		`data-variant="dark"`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}

	if html.ThemeFromSelection(nil) != nil {
		t.Fatalf("expected nil config for nil selection")
	}
}

func TestRenderWithCustomTemplates(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		html.FormTemplate: {Data: []byte(`{% for field in form.fields %}{% if not field.hidden %}{{ field.name }};{% endif %}{% endfor %}`)},
	}
	output := renderValues(t, model.FormValues{Model: model.ModelCog}, render.ErrorMapping{}, render.RenderOptions{}, html.WithTemplatesFS(files))
	if output != "model;prompt;firstFile;firstFrame;" {
		t.Fatalf("unexpected output %q", output)
	}
}
