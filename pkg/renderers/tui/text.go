package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// TextRenderer prints the visible fields of a view as aligned plain text.
type TextRenderer struct{}

var _ render.Renderer = TextRenderer{}

// NewTextRenderer returns the plain text renderer.
func NewTextRenderer() TextRenderer { return TextRenderer{} }

func (TextRenderer) Name() string { return "text" }

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	localized := view.Localized(options)
	visible := localized.VisibleFields()

	width := 0
	for _, field := range visible {
		if len(field.Label) > width {
			width = len(field.Label)
		}
	}

	var b strings.Builder
	for _, field := range visible {
		fmt.Fprintf(&b, "%-*s  %s\n", width, field.Label, displayValue(field))
		for _, message := range field.Errors {
			fmt.Fprintf(&b, "%-*s  ! %s\n", width, "", message)
		}
	}
	if localized.Crop.Gate {
		ratios := make([]string, 0, len(localized.Crop.Options))
		for _, option := range localized.Crop.Options {
			ratios = append(ratios, option.Label)
		}
		line := "ratio step required"
		if len(ratios) > 0 {
			line += ": " + strings.Join(ratios, ", ")
		}
		if localized.Crop.Resize {
			line += " (resize)"
		}
		b.WriteString(line + "\n")
	}
	for _, message := range localized.FormErrors {
		fmt.Fprintf(&b, "! %s\n", message)
	}
	return []byte(b.String()), nil
}

func displayValue(field render.FieldView) string {
	switch value := field.Value.(type) {
	case *model.FileHandle:
		if value == nil {
			return "-"
		}
		return value.Name
	case string:
		if value == "" {
			return "-"
		}
		for _, option := range field.Options {
			if option.Value == value {
				return option.Label
			}
		}
		return value
	default:
		return "-"
	}
}
