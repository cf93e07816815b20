package tui

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/form"
	"github.com/goliatone/go-vgenform/pkg/model"
)

var ratioPattern = regexp.MustCompile(`^[0-9]+:[0-9]+$`)

// CropWidget runs the ratio step in the terminal. It does not touch pixels:
// the derived frames reference their source with the chosen ratio so the
// worker crops when it picks the task up.
type CropWidget struct {
	driver PromptDriver
}

var _ form.CropWidget = (*CropWidget)(nil)

// NewCropWidget builds a widget prompting through driver.
func NewCropWidget(driver PromptDriver) *CropWidget {
	return &CropWidget{driver: driver}
}

// Crop asks for the ratio and derives frame handles for each source file.
func (w *CropWidget) Crop(ctx context.Context, req form.CropRequest) (form.CropResult, error) {
	ratio, err := w.askRatio(ctx, req.Options)
	if err != nil {
		return form.CropResult{}, err
	}
	return form.CropResult{
		FirstFrame: deriveFrame(req.FirstFile, ratio, req.Resize),
		LastFrame:  deriveFrame(req.LastFile, ratio, req.Resize),
		Ratio:      ratio,
	}, nil
}

func (w *CropWidget) askRatio(ctx context.Context, options []model.Option) (string, error) {
	if len(options) == 0 {
		text, err := w.driver.Input(ctx, InputConfig{
			Message: "Aspect ratio",
			Help:    "width:height, for example 16:9",
			Validator: func(text string) error {
				if !ratioPattern.MatchString(strings.TrimSpace(text)) {
					return fmt.Errorf("expected width:height")
				}
				return nil
			},
		})
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}

	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = option.Label
		if option.Label != option.Value {
			labels[i] = fmt.Sprintf("%s (%s)", option.Label, option.Value)
		}
	}
	for {
		idx, err := w.driver.Select(ctx, SelectConfig{Message: "Aspect ratio", Options: labels})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(options) {
			return options[idx].Value, nil
		}
		if err := w.driver.Info(ctx, "Invalid ratio selection"); err != nil {
			return "", err
		}
	}
}

func deriveFrame(source *model.FileHandle, ratio string, resize bool) *model.FileHandle {
	if source == nil {
		return nil
	}
	ext := filepath.Ext(source.Name)
	base := strings.TrimSuffix(source.Name, ext)
	query := url.Values{"ratio": {ratio}}
	if resize {
		query.Set("resize", "1")
	}
	return &model.FileHandle{
		Name:        fmt.Sprintf("%s-%s%s", base, strings.ReplaceAll(ratio, ":", "x"), ext),
		ContentType: source.ContentType,
		Ref:         source.Ref + "#" + query.Encode(),
	}
}
