// Package html renders the video form as server-side HTML using pongo2
// templates. Every catalogue field is emitted; fields outside the visible set
// carry the hidden attribute and are disabled so browsers do not submit them.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	theme      *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTheme applies theme tokens and assets to the rendered form.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	engine *Engine
	theme  *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engine, err := NewEngine(cfg.templateFS)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure templates: %w", err)
	}
	return &Renderer{engine: engine, theme: cfg.theme}, nil
}

func (r *Renderer) Name() string { return "html" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	localized := view.Localized(options)
	out, err := r.engine.RenderTemplate(FormTemplate, map[string]any{
		"form":  formContext(localized, options),
		"theme": themeContext(r.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	return []byte(out), nil
}

func formContext(view render.View, options render.RenderOptions) map[string]any {
	fields := make([]map[string]any, 0, len(view.Fields))
	for _, field := range view.Fields {
		fields = append(fields, fieldContext(field))
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, h := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	mode := "direct"
	if view.Crop.Gate {
		mode = "ratio-gate"
	}

	return map[string]any{
		"action":          options.Action,
		"locale":          options.Locale,
		"mode":            mode,
		"fields":          fields,
		"hidden":          hidden,
		"errors":          view.FormErrors,
		"ready":           view.Ready,
		"disabled":        view.Disabled,
		"submit_disabled": view.SubmitDisabled,
		"submit_label":    view.SubmitLabel,
		"crop": map[string]any{
			"gate":        view.Crop.Gate,
			"resize":      view.Crop.Resize,
			"options":     optionsContext(view.Crop.Options),
			"first_file":  handleContext(view.Crop.FirstFile),
			"last_file":   handleContext(view.Crop.LastFile),
			"first_frame": handleContext(view.Crop.FirstFrame),
			"last_frame":  handleContext(view.Crop.LastFrame),
		},
	}
}

func fieldContext(field render.FieldView) map[string]any {
	ctx := map[string]any{
		"name":        string(field.Name),
		"id":          "vgen-" + string(field.Name),
		"kind":        string(field.Kind),
		"label":       field.Label,
		"placeholder": field.Placeholder,
		"help_html":   sanitizeHelp(field.HelpText),
		"accept":      field.Accept,
		"hidden":      field.Hidden,
		"errors":      field.Errors,
		"options":     optionsContext(field.Options),
		"value":       "",
		"file":        nil,
	}
	switch value := field.Value.(type) {
	case *model.FileHandle:
		ctx["file"] = handleContext(value)
	case string:
		ctx["value"] = value
	}
	return ctx
}

func optionsContext(options []model.Option) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		out = append(out, map[string]any{"value": option.Value, "label": option.Label})
	}
	return out
}

func handleContext(handle *model.FileHandle) map[string]any {
	if handle == nil {
		return nil
	}
	return map[string]any{
		"name":         handle.Name,
		"content_type": handle.ContentType,
		"ref":          handle.Ref,
	}
}
