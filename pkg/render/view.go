package render

import (
	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/visibility"
)

// SubmitLabelKey is the translation key of the submit button.
const SubmitLabelKey = "v-gen:action.create_video"

// FieldView is one catalogue entry prepared for rendering. Every field of the
// catalogue is present; fields outside the visible set carry Hidden.
type FieldView struct {
	model.Field
	Hidden bool     `json:"hidden"`
	Value  any      `json:"value,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// CropView describes the ratio confirmation step. Gate is set when submission
// has to pass through the crop widget first.
type CropView struct {
	Gate       bool              `json:"gate"`
	Options    []model.Option    `json:"options,omitempty"`
	Resize     bool              `json:"resize"`
	FirstFile  *model.FileHandle `json:"firstFile,omitempty"`
	LastFile   *model.FileHandle `json:"lastFile,omitempty"`
	FirstFrame *model.FileHandle `json:"firstFrame,omitempty"`
	LastFrame  *model.FileHandle `json:"lastFrame,omitempty"`
}

// View is the renderer input assembled from a resolution, the current
// validation errors and the external disabled flag.
type View struct {
	Fields         []FieldView `json:"fields"`
	Crop           CropView    `json:"crop"`
	FormErrors     []string    `json:"formErrors,omitempty"`
	Ready          bool        `json:"ready"`
	Disabled       bool        `json:"disabled"`
	SubmitDisabled bool        `json:"submitDisabled"`
	SubmitLabel    string      `json:"submitLabel"`
	SubmitLabelKey string      `json:"submitLabelKey"`
}

// NewView builds the render view for res. The ratio select uses the resolved
// ratio set so the options always match the selected model.
func NewView(res visibility.Resolution, errs ErrorMapping, disabled bool) View {
	catalogue := model.VideoFormFields()
	view := View{
		Fields:         make([]FieldView, 0, len(catalogue)),
		FormErrors:     append([]string(nil), errs.Form...),
		Ready:          res.Ready,
		Disabled:       disabled,
		SubmitDisabled: disabled || !res.Ready,
		SubmitLabel:    "Create video",
		SubmitLabelKey: SubmitLabelKey,
		Crop: CropView{
			Gate:       res.State.NeedsRatio,
			Options:    model.CloneOptions(res.State.RatioOptions),
			Resize:     res.State.NeedsResize,
			FirstFile:  res.Values.FirstFile,
			LastFile:   res.Values.LastFile,
			FirstFrame: res.Values.FirstFrame,
			LastFrame:  res.Values.LastFrame,
		},
	}

	for _, field := range catalogue {
		if field.Name == model.FieldRatio && len(res.State.RatioOptions) > 0 {
			field.Options = model.CloneOptions(res.State.RatioOptions)
		}
		value, _ := res.Values.Get(field.Name)
		if handle, ok := value.(*model.FileHandle); ok && handle == nil {
			value = nil
		}
		view.Fields = append(view.Fields, FieldView{
			Field:  field,
			Hidden: !res.State.Visible(field.Name),
			Value:  value,
			Errors: append([]string(nil), errs.Fields[field.Name]...),
		})
	}
	return view
}

// Field returns the view of name.
func (v View) Field(name model.FieldName) (FieldView, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldView{}, false
}

// VisibleFields returns the fields that are not hidden, in render order.
func (v View) VisibleFields() []FieldView {
	out := make([]FieldView, 0, len(v.Fields))
	for _, field := range v.Fields {
		if !field.Hidden {
			out = append(out, field)
		}
	}
	return out
}

// Localized returns a copy of v with labels, placeholders, help text, option
// labels and the submit label translated for opts.Locale.
func (v View) Localized(opts RenderOptions) View {
	out := v
	out.Fields = make([]FieldView, len(v.Fields))
	catalogue := make([]model.Field, len(v.Fields))
	for i, field := range v.Fields {
		catalogue[i] = field.Field
		catalogue[i].Options = model.CloneOptions(field.Options)
	}
	LocalizeFields(catalogue, opts)
	for i, field := range v.Fields {
		out.Fields[i] = field
		out.Fields[i].Field = catalogue[i]
	}

	out.Crop.Options = model.CloneOptions(v.Crop.Options)
	LocalizeOptions(out.Crop.Options, opts)
	out.SubmitLabel = Translate(opts, v.SubmitLabelKey, v.SubmitLabel)
	return out
}
