package visibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vgenform/pkg/model"
)

var (
	fileA = &model.FileHandle{Name: "first.png", Ref: "uploads/first.png"}
	fileB = &model.FileHandle{Name: "last.png", Ref: "uploads/last.png"}
	frame = &model.FileHandle{Name: "frame.png", Ref: "frames/frame.png"}
)

func fields(names ...model.FieldName) []model.FieldName { return names }

var media = fields(
	model.FieldModel, model.FieldPrompt,
	model.FieldFirstFile, model.FieldFirstFrame,
	model.FieldLastFile, model.FieldLastFrame,
)

func TestResolveFieldTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		values model.FormValues
		want   []model.FieldName
		ratios []model.Option
	}{
		{
			name:   "luma",
			values: model.FormValues{Model: model.ModelLuma},
			want:   append(append([]model.FieldName{}, media...), model.FieldCamera, model.FieldLoop),
			ratios: model.LumaRatioOptions,
		},
		{
			name:   "kling standard without files",
			values: model.FormValues{Model: model.ModelKling, Type: "standard"},
			want:   append(append([]model.FieldName{}, media...), model.FieldRatio, model.FieldType, model.FieldTime),
			ratios: model.KlingRatioOptions,
		},
		{
			name:   "kling fast",
			values: model.FormValues{Model: model.ModelKling, Type: "fast"},
			want:   append(append([]model.FieldName{}, media...), model.FieldRatio, model.FieldType),
			ratios: model.KlingRatioOptions,
		},
		{
			name:   "kling with last file",
			values: model.FormValues{Model: model.ModelKling, LastFile: fileB},
			want:   append(append([]model.FieldName{}, media...), model.FieldRatio, model.FieldType),
			ratios: model.KlingRatioOptions,
		},
		{
			name:   "runway with file",
			values: model.FormValues{Model: model.ModelRunway, FirstFile: fileA},
			want:   append(append([]model.FieldName{}, media...), model.FieldType, model.FieldTime),
			ratios: model.RunwayRatioOptions,
		},
		{
			name:   "runway without files",
			values: model.FormValues{Model: model.ModelRunway},
			want:   append(append([]model.FieldName{}, media...), model.FieldTime),
			ratios: model.RunwayRatioOptions,
		},
		{
			name:   "cog",
			values: model.FormValues{Model: model.ModelCog},
			want:   fields(model.FieldModel, model.FieldPrompt, model.FieldFirstFile, model.FieldFirstFrame),
			ratios: model.CogRatioOptions,
		},
		{
			name:   "minimax",
			values: model.FormValues{Model: model.ModelMinimax},
			want:   fields(model.FieldModel, model.FieldPrompt, model.FieldFirstFile, model.FieldFirstFrame),
			ratios: model.MinimaxRatioOptions,
		},
		{
			name:   "pika",
			values: model.FormValues{Model: model.ModelPika},
			want: fields(model.FieldModel, model.FieldPrompt, model.FieldFirstFile, model.FieldFirstFrame,
				model.FieldRatio, model.FieldStyle, model.FieldAudio),
			ratios: model.PikaRatioOptions,
		},
		{
			name:   "genmo",
			values: model.FormValues{Model: model.ModelGenmo, Style: "anime"},
			want:   fields(model.FieldModel, model.FieldPrompt),
		},
		{
			name:   "unset model",
			values: model.FormValues{},
			want:   model.AllFields,
			ratios: model.DefaultRatioOptions,
		},
		{
			name:   "unknown model",
			values: model.FormValues{Model: "sora"},
			want:   model.AllFields,
			ratios: model.DefaultRatioOptions,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Resolve(tc.values)
			if diff := cmp.Diff(tc.want, res.State.Fields); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(model.CloneOptions(tc.ratios), res.State.RatioOptions); diff != "" {
				t.Fatalf("ratio options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	values := model.FormValues{Model: model.ModelKling, Type: "fast", FirstFile: fileA, FirstFrame: frame, Prompt: "x"}
	first := Resolve(values)
	second := Resolve(values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution not deterministic (-first +second):\n%s", diff)
	}

	// the input must not be mutated by the reset/force pass
	if values.Time != "" {
		t.Fatalf("Resolve mutated its input: %+v", values)
	}
}

func TestResolveClearsOrphanFrames(t *testing.T) {
	t.Parallel()

	models := append(append([]model.Model{}, model.KnownModels...), "", "sora")
	for _, m := range models {
		res := Resolve(model.FormValues{Model: m, FirstFrame: frame, LastFrame: frame})
		if res.Values.FirstFrame != nil || res.Values.LastFrame != nil {
			t.Fatalf("model %q: frames outlived their source files: %+v", m, res.Values)
		}
		if diff := cmp.Diff(fields(model.FieldFirstFrame, model.FieldLastFrame), res.Resets[:2]); diff != "" {
			t.Fatalf("model %q: resets mismatch (-want +got):\n%s", m, diff)
		}
	}

	res := Resolve(model.FormValues{Model: model.ModelLuma, FirstFile: fileA, FirstFrame: frame, LastFrame: frame})
	if res.Values.FirstFrame == nil {
		t.Fatalf("first frame should survive while its file is attached")
	}
	if res.Values.LastFrame != nil {
		t.Fatalf("last frame should be cleared without a last file")
	}
}

func TestResolveFlags(t *testing.T) {
	t.Parallel()

	models := append(append([]model.Model{}, model.KnownModels...), "", "sora")
	for _, m := range models {
		for _, files := range []struct{ first, last *model.FileHandle }{{nil, nil}, {fileA, nil}, {nil, fileB}, {fileA, fileB}} {
			res := Resolve(model.FormValues{Model: m, FirstFile: files.first, LastFile: files.last})

			hasFiles := files.first != nil || files.last != nil
			wantRatio := m == model.ModelKling || m == model.ModelPika || hasFiles
			if res.State.NeedsRatio != wantRatio {
				t.Fatalf("model %q files=%v: NeedsRatio = %v, want %v", m, hasFiles, res.State.NeedsRatio, wantRatio)
			}
			if res.State.NeedsResize != (m == model.ModelRunway) {
				t.Fatalf("model %q: NeedsResize = %v", m, res.State.NeedsResize)
			}
			if res.Ready != hasFiles {
				t.Fatalf("model %q files=%v: Ready = %v without prompt", m, hasFiles, res.Ready)
			}
		}
	}
}

func TestResolveReadyFollowsPrompt(t *testing.T) {
	t.Parallel()

	values := model.FormValues{Model: model.ModelKling}
	if Resolve(values).Ready {
		t.Fatalf("expected not ready with empty prompt and no files")
	}
	values.Prompt = "a"
	if !Resolve(values).Ready {
		t.Fatalf("expected ready once the prompt is non-empty")
	}
}

func TestResolveKlingForcesTime(t *testing.T) {
	t.Parallel()

	res := Resolve(model.FormValues{Model: model.ModelKling, Type: "fast", Time: "10s"})
	if res.Values.Time != model.ForcedKlingTime {
		t.Fatalf("expected time forced to %s, got %q", model.ForcedKlingTime, res.Values.Time)
	}
	if res.State.Visible(model.FieldTime) {
		t.Fatalf("time should be hidden for kling fast")
	}

	res = Resolve(model.FormValues{Model: model.ModelKling, Type: "standard", Time: "10s"})
	if res.Values.Time != "10s" {
		t.Fatalf("standard kling must leave time to the user, got %q", res.Values.Time)
	}
	if !res.State.Visible(model.FieldTime) {
		t.Fatalf("time should be visible for kling standard")
	}
}

func TestResolverWithRuleOverrides(t *testing.T) {
	t.Parallel()

	resolver := New(
		WithRule(Rule{
			Model:         model.ModelGenmo,
			Fields:        fields(model.FieldModel, model.FieldPrompt, model.FieldRatio),
			RatioOptions:  model.DefaultRatioOptions,
			RequiresRatio: true,
		}),
		WithRule(Rule{Model: "veo", Fields: fields(model.FieldModel)}),
		WithRule(Rule{}),
	)

	res := resolver.Resolve(model.FormValues{Model: model.ModelGenmo})
	if !res.State.NeedsRatio || !res.State.Visible(model.FieldRatio) {
		t.Fatalf("override not applied: %+v", res.State)
	}

	models := resolver.Models()
	if models[len(models)-1] != "veo" {
		t.Fatalf("expected additions after built-ins, got %v", models)
	}
	if _, ok := resolver.Rule("veo"); !ok {
		t.Fatalf("expected veo rule registered")
	}
	if _, ok := resolver.Rule("nope"); ok {
		t.Fatalf("unknown model must fall back")
	}
}

func TestValidateRule(t *testing.T) {
	t.Parallel()

	for _, rule := range DefaultRules() {
		if err := ValidateRule(rule); err != nil {
			t.Fatalf("built-in rule %q invalid: %v", rule.Model, err)
		}
	}
	if err := ValidateRule(Rule{Model: "x", Fields: fields("colour")}); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if err := ValidateRule(Rule{Model: "x", Branches: []Branch{{}}}); err == nil {
		t.Fatalf("expected missing predicate error")
	}
}
