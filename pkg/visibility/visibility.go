// Package visibility decides which video form fields apply to the selected
// generation model. Resolution is a pure function of the form values: callers
// re-run it after every mutation and render from the returned State.
package visibility

import "github.com/goliatone/go-vgenform/pkg/model"

// Evaluator evaluates a textual rule against a Context. The expr subpackage
// provides the default implementation used by rule files.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values carries the current field
// values plus derived signals (hasFiles, hasPrompt); Extras lets callers inject
// anything else, addressed with the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}

// Signals are the inputs the rule table branches on.
type Signals struct {
	Model        model.Model
	Type         string
	HasPrompt    bool
	HasFirstFile bool
	HasLastFile  bool
}

// SignalsFrom extracts the branching inputs from values.
func SignalsFrom(values model.FormValues) Signals {
	return Signals{
		Model:        values.Model,
		Type:         values.Type,
		HasPrompt:    values.Prompt != "",
		HasFirstFile: values.FirstFile != nil,
		HasLastFile:  values.LastFile != nil,
	}
}

// HasFiles reports whether either source file is attached.
func (s Signals) HasFiles() bool {
	return s.HasFirstFile || s.HasLastFile
}

// Context exposes the signals to a textual Evaluator.
func (s Signals) Context() Context {
	return Context{
		Values: map[string]any{
			"model":        string(s.Model),
			"type":         s.Type,
			"hasPrompt":    s.HasPrompt,
			"hasFirstFile": s.HasFirstFile,
			"hasLastFile":  s.HasLastFile,
			"hasFiles":     s.HasFiles(),
		},
	}
}

// Predicate selects a rule branch.
type Predicate func(Signals) bool

// Branch adjusts a rule's field list when When matches. Only the first
// matching branch of a rule applies.
type Branch struct {
	When  Predicate
	Omit  []model.FieldName
	Force map[model.FieldName]string
}

// Rule is one entry of the per-model lookup table.
type Rule struct {
	Model         model.Model
	RatioOptions  []model.Option
	Fields        []model.FieldName
	Branches      []Branch
	RequiresRatio bool
	Resize        bool
}

// State is the derived view the renderers consume. It is rebuilt in full on
// every resolution.
type State struct {
	Fields       []model.FieldName `json:"fields"`
	RatioOptions []model.Option    `json:"ratioOptions"`
	NeedsRatio   bool              `json:"needsRatio"`
	NeedsResize  bool              `json:"needsResize"`
}

// Visible reports whether name is part of the visible set.
func (s State) Visible(name model.FieldName) bool {
	for _, field := range s.Fields {
		if field == name {
			return true
		}
	}
	return false
}

// Resolution is the full output of a resolver run.
type Resolution struct {
	State State `json:"state"`
	// Ready enables submission: a file is attached or the prompt is non-empty.
	Ready bool `json:"ready"`
	// Values are the input values with derived resets applied.
	Values model.FormValues `json:"values"`
	// Resets lists the fields the run cleared or forced, in application order.
	Resets []model.FieldName `json:"resets,omitempty"`
}
