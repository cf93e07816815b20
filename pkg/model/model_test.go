package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormValuesGetSet(t *testing.T) {
	t.Parallel()

	var values FormValues
	for _, name := range AllFields {
		var input any = "x-" + string(name)
		if IsFileField(name) {
			input = &FileHandle{Name: string(name) + ".png"}
		}
		if err := values.Set(name, input); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
		got, ok := values.Get(name)
		if !ok {
			t.Fatalf("get %s: not found", name)
		}
		if diff := cmp.Diff(input, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestFormValuesSetRejectsWrongFileType(t *testing.T) {
	t.Parallel()

	var values FormValues
	if err := values.Set(FieldFirstFile, "not-a-file"); err == nil {
		t.Fatalf("expected error for string assigned to file field")
	}
	if err := values.Set(FieldName("unknown"), "x"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestFormValuesSetNilClears(t *testing.T) {
	t.Parallel()

	values := FormValues{FirstFile: &FileHandle{Name: "a.png"}, Style: "anime"}
	if err := values.Set(FieldFirstFile, nil); err != nil {
		t.Fatalf("clear file: %v", err)
	}
	if err := values.Set(FieldStyle, nil); err != nil {
		t.Fatalf("clear style: %v", err)
	}
	if values.FirstFile != nil || values.Style != "" {
		t.Fatalf("expected cleared values, got %+v", values)
	}
}

func TestFormValuesCloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	original := FormValues{FirstFile: &FileHandle{Name: "a.png"}}
	clone := original.Clone()
	clone.FirstFile.Name = "b.png"
	if original.FirstFile.Name != "a.png" {
		t.Fatalf("clone aliased the first file handle")
	}
}

func TestRatioOptions(t *testing.T) {
	t.Parallel()

	if got := RatioOptions(ModelGenmo); got != nil {
		t.Fatalf("expected no ratio options for genmo, got %+v", got)
	}
	if diff := cmp.Diff(DefaultRatioOptions, RatioOptions(Model("sora"))); diff != "" {
		t.Fatalf("unknown model should use default set (-want +got):\n%s", diff)
	}
	runway := RatioOptions(ModelRunway)
	runway[0].Value = "mutated"
	if RunwayRatioOptions[0].Value == "mutated" {
		t.Fatalf("RatioOptions returned shared slice")
	}
}

func TestVideoFormFieldsCoverAllFields(t *testing.T) {
	t.Parallel()

	fields := VideoFormFields()
	seen := make(map[FieldName]bool, len(fields))
	for _, field := range fields {
		seen[field.Name] = true
		if field.LabelKey == "" || field.Label == "" {
			t.Fatalf("field %s missing label metadata", field.Name)
		}
	}
	for _, name := range AllFields {
		if !seen[name] {
			t.Fatalf("catalogue missing %s", name)
		}
	}
}

func TestDefaultLabeler(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"firstFile":   "First file",
		"black_white": "Black White",
		"3d":          "3d",
		"5s":          "5s",
		"":            "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
