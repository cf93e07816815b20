package visibility

import (
	"sort"

	"github.com/goliatone/go-vgenform/pkg/model"
)

var mediaFields = []model.FieldName{
	model.FieldModel,
	model.FieldPrompt,
	model.FieldFirstFile,
	model.FieldFirstFrame,
	model.FieldLastFile,
	model.FieldLastFrame,
}

var firstFrameFields = []model.FieldName{
	model.FieldModel,
	model.FieldPrompt,
	model.FieldFirstFile,
	model.FieldFirstFrame,
}

var defaultRules = []Rule{
	{
		Model:        model.ModelLuma,
		RatioOptions: model.LumaRatioOptions,
		Fields:       with(mediaFields, model.FieldCamera, model.FieldLoop),
	},
	{
		Model:         model.ModelKling,
		RatioOptions:  model.KlingRatioOptions,
		Fields:        with(mediaFields, model.FieldRatio, model.FieldType, model.FieldTime),
		RequiresRatio: true,
		Branches: []Branch{
			{
				When:  klingFixedDuration,
				Omit:  []model.FieldName{model.FieldTime},
				Force: map[model.FieldName]string{model.FieldTime: model.ForcedKlingTime},
			},
		},
	},
	{
		Model:        model.ModelRunway,
		RatioOptions: model.RunwayRatioOptions,
		Fields:       with(mediaFields, model.FieldType, model.FieldTime),
		Resize:       true,
		Branches: []Branch{
			{
				When: func(s Signals) bool { return !s.HasFiles() },
				Omit: []model.FieldName{model.FieldType},
			},
		},
	},
	{
		Model:        model.ModelCog,
		RatioOptions: model.CogRatioOptions,
		Fields:       firstFrameFields,
	},
	{
		Model:        model.ModelMinimax,
		RatioOptions: model.MinimaxRatioOptions,
		Fields:       firstFrameFields,
	},
	{
		Model:         model.ModelPika,
		RatioOptions:  model.PikaRatioOptions,
		Fields:        with(firstFrameFields, model.FieldRatio, model.FieldStyle, model.FieldAudio),
		RequiresRatio: true,
	},
	{
		Model:  model.ModelGenmo,
		Fields: []model.FieldName{model.FieldModel, model.FieldPrompt},
	},
}

var defaultFallback = Rule{
	RatioOptions: model.DefaultRatioOptions,
	Fields: []model.FieldName{
		model.FieldModel,
		model.FieldPrompt,
		model.FieldFirstFile,
		model.FieldLastFile,
		model.FieldFirstFrame,
		model.FieldLastFrame,
		model.FieldRatio,
		model.FieldType,
		model.FieldTime,
		model.FieldLoop,
		model.FieldAudio,
		model.FieldCamera,
		model.FieldStyle,
	},
}

// klingFixedDuration: fast runs and image driven runs only accept 5s.
func klingFixedDuration(s Signals) bool {
	return s.Type == "fast" || s.HasFiles()
}

// DefaultRules returns a copy of the built-in table.
func DefaultRules() []Rule {
	out := make([]Rule, 0, len(defaultRules))
	for _, rule := range defaultRules {
		out = append(out, cloneRule(rule))
	}
	return out
}

// DefaultFallback returns a copy of the rule used for unknown models.
func DefaultFallback() Rule {
	return cloneRule(defaultFallback)
}

func with(base []model.FieldName, extra ...model.FieldName) []model.FieldName {
	out := make([]model.FieldName, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

func sortModels(models []model.Model) {
	sort.Slice(models, func(i, j int) bool { return models[i] < models[j] })
}

func sortedForceKeys(force map[model.FieldName]string) []model.FieldName {
	if len(force) == 0 {
		return nil
	}
	keys := make([]model.FieldName, 0, len(force))
	for key := range force {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
