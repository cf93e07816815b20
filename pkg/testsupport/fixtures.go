// Package testsupport loads YAML fixtures shared by the package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// ResolveCase is one fixture scenario: input values and the expected outcome
// of a resolver run.
type ResolveCase struct {
	Name   string           `yaml:"name"`
	Values model.FormValues `yaml:"values"`
	Expect ResolveExpect    `yaml:"expect"`
}

// ResolveExpect is the expected resolver outcome. Nil Time or frame flags are
// not checked.
type ResolveExpect struct {
	Fields      []model.FieldName `yaml:"fields"`
	NeedsRatio  bool              `yaml:"needsRatio"`
	NeedsResize bool              `yaml:"needsResize"`
	Ready       bool              `yaml:"ready"`
	Time        *string           `yaml:"time"`
	FramesReset *bool             `yaml:"framesReset"`
}

// LoadValues reads a YAML or JSON values fixture.
func LoadValues(path string) (model.FormValues, error) {
	var out model.FormValues
	if err := load(path, &out); err != nil {
		return model.FormValues{}, err
	}
	return out, nil
}

// MustLoadValues is LoadValues for tests.
func MustLoadValues(t *testing.T, path string) model.FormValues {
	t.Helper()

	values, err := LoadValues(path)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	return values
}

// LoadResolveCases reads a list of resolver scenarios.
func LoadResolveCases(path string) ([]ResolveCase, error) {
	var doc struct {
		Cases []ResolveCase `yaml:"cases"`
	}
	if err := load(path, &doc); err != nil {
		return nil, err
	}
	if len(doc.Cases) == 0 {
		return nil, fmt.Errorf("testsupport: %s: no cases", path)
	}
	return doc.Cases, nil
}

// MustLoadResolveCases is LoadResolveCases for tests.
func MustLoadResolveCases(t *testing.T, path string) []ResolveCase {
	t.Helper()

	cases, err := LoadResolveCases(path)
	if err != nil {
		t.Fatalf("load cases: %v", err)
	}
	return cases
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

func load(path string, out any) error {
	if path == "" {
		return errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("testsupport: read fixture: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	return nil
}
