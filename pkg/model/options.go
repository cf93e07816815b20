package model

// Option is a selectable (value, label) pair. LabelKey, when set, is resolved
// through the translator before Label is used.
type Option struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label" yaml:"label"`
	LabelKey string `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
}

// ForcedKlingTime is the duration kling accepts for fast or image driven runs.
const ForcedKlingTime = "5s"

// Ratio option sets handed to the crop step. Runway takes pixel ratios on the
// wire but presents them as aspect ratios.
var (
	DefaultRatioOptions = ratios("16:9", "9:16", "1:1")
	LumaRatioOptions    = ratios("16:9", "9:16", "1:1", "4:3", "3:4", "21:9", "9:21")
	KlingRatioOptions   = ratios("16:9", "9:16", "1:1")
	RunwayRatioOptions  = []Option{
		{Value: "1280:768", Label: "16:9"},
		{Value: "768:1280", Label: "9:16"},
	}
	CogRatioOptions     = ratios("3:2")
	MinimaxRatioOptions = ratios("16:9")
	PikaRatioOptions    = ratios("16:9", "9:16", "1:1", "4:5", "5:2")
)

var (
	modelOptions = []Option{
		{Value: string(ModelLuma), Label: "Luma Dream Machine"},
		{Value: string(ModelKling), Label: "Kling"},
		{Value: string(ModelRunway), Label: "Runway Gen-3"},
		{Value: string(ModelCog), Label: "CogVideoX"},
		{Value: string(ModelMinimax), Label: "MiniMax Hailuo"},
		{Value: string(ModelPika), Label: "Pika"},
		{Value: string(ModelGenmo), Label: "Genmo Mochi"},
	}
	typeOptions   = keyedOptions(FieldType, "standard", "fast")
	timeOptions   = keyedOptions(FieldTime, "5s", "10s")
	loopOptions   = keyedOptions(FieldLoop, "false", "true")
	audioOptions  = keyedOptions(FieldAudio, "false", "true")
	cameraOptions = keyedOptions(FieldCamera,
		"none", "move_left", "move_right", "move_up", "move_down",
		"push_in", "pull_out", "zoom_in", "zoom_out",
		"pan_left", "pan_right", "orbit_left", "orbit_right",
		"crane_up", "crane_down",
	)
	styleOptions = keyedOptions(FieldStyle,
		"none", "anime", "moody", "3d", "watercolor", "natural", "claymation", "black_white",
	)
)

// RatioOptions returns the ratio set for m. Genmo has no ratio step and gets
// nil; unknown models get the default set.
func RatioOptions(m Model) []Option {
	switch m {
	case ModelLuma:
		return CloneOptions(LumaRatioOptions)
	case ModelKling:
		return CloneOptions(KlingRatioOptions)
	case ModelRunway:
		return CloneOptions(RunwayRatioOptions)
	case ModelCog:
		return CloneOptions(CogRatioOptions)
	case ModelMinimax:
		return CloneOptions(MinimaxRatioOptions)
	case ModelPika:
		return CloneOptions(PikaRatioOptions)
	case ModelGenmo:
		return nil
	default:
		return CloneOptions(DefaultRatioOptions)
	}
}

// CloneOptions copies options so callers can't mutate the shared sets.
func CloneOptions(in []Option) []Option {
	if len(in) == 0 {
		return nil
	}
	out := make([]Option, len(in))
	copy(out, in)
	return out
}

func ratios(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, value := range values {
		out = append(out, Option{Value: value, Label: value})
	}
	return out
}

func keyedOptions(field FieldName, values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, value := range values {
		out = append(out, Option{
			Value:    value,
			Label:    DefaultLabeler(value),
			LabelKey: "v-gen:form." + string(field) + ".options." + value,
		})
	}
	return out
}
