// Package validation checks form values against the declared VideoForm schema.
// The schema lives in an OpenAPI document so backends can share it with their
// request validation.
package validation

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
)

// DefaultSchemaName is the component schema validated by default.
const DefaultSchemaName = "VideoForm"

//go:embed schema/videoform.yaml
var defaultDocument []byte

// DefaultDocument returns a copy of the embedded OpenAPI document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Option customises a Validator.
type Option func(*config)

type config struct {
	document     []byte
	schemaName   string
	ratioOptions func(model.Model) []model.Option
}

// WithDocument replaces the embedded OpenAPI document.
func WithDocument(data []byte) Option {
	return func(c *config) {
		if len(data) > 0 {
			c.document = data
		}
	}
}

// WithSchemaName selects the component schema used for validation.
func WithSchemaName(name string) Option {
	return func(c *config) {
		if name = strings.TrimSpace(name); name != "" {
			c.schemaName = name
		}
	}
}

// WithRatioOptions supplies the ratio set per model used to reject ratios the
// selected model does not offer. Pass nil to disable the check.
func WithRatioOptions(fn func(model.Model) []model.Option) Option {
	return func(c *config) {
		c.ratioOptions = fn
	}
}

// Issue is a single validation failure.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result holds the outcome of a validation run.
type Result struct {
	Issues []Issue `json:"issues,omitempty"`
}

// Valid reports whether no issue was found.
func (r Result) Valid() bool { return len(r.Issues) == 0 }

// Mapping groups the issues by form field.
func (r Result) Mapping() render.ErrorMapping {
	if len(r.Issues) == 0 {
		return render.ErrorMapping{}
	}
	payload := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		payload[issue.Path] = append(payload[issue.Path], issue.Message)
	}
	return render.MapErrorPayload(payload)
}

// Validator validates FormValues against a compiled schema.
type Validator struct {
	schema       *openapi3.Schema
	ratioOptions func(model.Model) []model.Option
}

// New loads and validates the OpenAPI document, then resolves the schema.
func New(ctx context.Context, options ...Option) (*Validator, error) {
	cfg := config{
		document:     defaultDocument,
		schemaName:   DefaultSchemaName,
		ratioOptions: model.RatioOptions,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(cfg.document)
	if err != nil {
		return nil, fmt.Errorf("validation: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validation: invalid document: %w", err)
	}

	ref, ok := doc.Components.Schemas[cfg.schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("validation: schema %q not found", cfg.schemaName)
	}

	return &Validator{schema: ref.Value, ratioOptions: cfg.ratioOptions}, nil
}

// Validate checks the full record. Issues are returned sorted by path; the
// error is reserved for values that cannot be encoded.
func (v *Validator) Validate(ctx context.Context, values model.FormValues) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return Result{}, fmt.Errorf("validation: encode values: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Result{}, fmt.Errorf("validation: decode values: %w", err)
	}

	var result Result
	if err := v.schema.VisitJSON(generic, openapi3.MultiErrors()); err != nil {
		result.Issues = append(result.Issues, issuesFromError(err)...)
	}
	if issue, ok := v.checkRatio(values); ok {
		result.Issues = append(result.Issues, issue)
	}

	sort.SliceStable(result.Issues, func(i, j int) bool {
		if result.Issues[i].Path != result.Issues[j].Path {
			return result.Issues[i].Path < result.Issues[j].Path
		}
		return result.Issues[i].Message < result.Issues[j].Message
	})
	return result, nil
}

func (v *Validator) checkRatio(values model.FormValues) (Issue, bool) {
	if v.ratioOptions == nil || values.Ratio == "" {
		return Issue{}, false
	}
	options := v.ratioOptions(values.Model)
	if len(options) == 0 {
		return Issue{}, false
	}
	for _, option := range options {
		if option.Value == values.Ratio {
			return Issue{}, false
		}
	}
	return Issue{
		Path:    "/" + string(model.FieldRatio),
		Message: fmt.Sprintf("ratio %q is not offered for model %q", values.Ratio, values.Model),
	}, true
}

func issuesFromError(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, inner := range multi {
			out = append(out, issuesFromError(inner)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		message := strings.TrimSpace(schemaErr.Reason)
		if message == "" {
			message = strings.TrimSpace(schemaErr.Error())
		}
		return []Issue{{
			Path:    pointer(schemaErr.JSONPointer()),
			Message: message,
		}}
	}

	return []Issue{{Message: strings.TrimSpace(err.Error())}}
}

func pointer(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}
