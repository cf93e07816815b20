package model

// InputKind tells renderers which control to draw for a field.
type InputKind string

const (
	InputSelect   InputKind = "select"
	InputTextarea InputKind = "textarea"
	InputFile     InputKind = "file"
	// InputFrame holds a derived frame produced by the crop step. Renderers
	// show a preview, never an editable control.
	InputFrame InputKind = "frame"
)

// Field describes one entry of the video form. The catalogue is fixed; the
// visibility resolver only toggles which entries are shown.
type Field struct {
	Name           FieldName `json:"name"`
	Kind           InputKind `json:"kind"`
	Label          string    `json:"label"`
	LabelKey       string    `json:"labelKey,omitempty"`
	Placeholder    string    `json:"placeholder,omitempty"`
	PlaceholderKey string    `json:"placeholderKey,omitempty"`
	HelpText       string    `json:"helpText,omitempty"`
	HelpTextKey    string    `json:"helpTextKey,omitempty"`
	Accept         string    `json:"accept,omitempty"`
	Options        []Option  `json:"options,omitempty"`
}

// VideoFormFields returns a fresh copy of the field catalogue in render order.
func VideoFormFields() []Field {
	fields := []Field{
		selectField(FieldModel, modelOptions),
		{
			Name:           FieldPrompt,
			Kind:           InputTextarea,
			Placeholder:    "Describe the video you want to create",
			PlaceholderKey: labelKey(FieldPrompt, "placeholder"),
		},
		fileField(FieldFirstFile),
		frameField(FieldFirstFrame),
		fileField(FieldLastFile),
		frameField(FieldLastFrame),
		selectField(FieldRatio, DefaultRatioOptions),
		selectField(FieldType, typeOptions),
		selectField(FieldTime, timeOptions),
		selectField(FieldLoop, loopOptions),
		selectField(FieldCamera, cameraOptions),
		selectField(FieldAudio, audioOptions),
		selectField(FieldStyle, styleOptions),
	}
	for i := range fields {
		fields[i].Label = DefaultLabeler(string(fields[i].Name))
		fields[i].LabelKey = labelKey(fields[i].Name, "label")
		fields[i].Options = CloneOptions(fields[i].Options)
	}
	return fields
}

// FieldByName looks a descriptor up in the catalogue.
func FieldByName(name FieldName) (Field, bool) {
	for _, field := range VideoFormFields() {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func selectField(name FieldName, options []Option) Field {
	return Field{Name: name, Kind: InputSelect, Options: options}
}

func fileField(name FieldName) Field {
	return Field{
		Name:        name,
		Kind:        InputFile,
		Accept:      "image/png,image/jpeg,image/webp",
		HelpTextKey: labelKey(name, "help"),
	}
}

func frameField(name FieldName) Field {
	return Field{Name: name, Kind: InputFrame}
}

func labelKey(name FieldName, suffix string) string {
	return "v-gen:form." + string(name) + "." + suffix
}
