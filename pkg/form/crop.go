package form

import (
	"context"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// CropRequest is handed to the crop widget when the ratio step runs.
type CropRequest struct {
	FirstFile *model.FileHandle
	LastFile  *model.FileHandle
	// Options is the ratio set of the selected model; empty means any ratio.
	Options []model.Option
	// Resize asks the widget to scale frames to the chosen pixel ratio.
	Resize bool
}

// CropResult carries the derived frames and the chosen ratio.
type CropResult struct {
	FirstFrame *model.FileHandle
	LastFrame  *model.FileHandle
	Ratio      string
}

// CropWidget derives frames from the source files and picks a ratio.
type CropWidget interface {
	Crop(ctx context.Context, req CropRequest) (CropResult, error)
}

// CropWidgetFunc adapts a function into a CropWidget.
type CropWidgetFunc func(ctx context.Context, req CropRequest) (CropResult, error)

// Crop delegates to the underlying function.
func (fn CropWidgetFunc) Crop(ctx context.Context, req CropRequest) (CropResult, error) {
	return fn(ctx, req)
}
