package visibility

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithRule adds a rule or replaces the built-in rule for the same model.
func WithRule(rule Rule) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(string(rule.Model)) == "" {
			return
		}
		r.rules[rule.Model] = cloneRule(rule)
	}
}

// WithRules applies WithRule for each entry.
func WithRules(rules ...Rule) Option {
	return func(r *Resolver) {
		for _, rule := range rules {
			WithRule(rule)(r)
		}
	}
}

// WithFallback overrides the rule used for unset or unknown models.
func WithFallback(rule Rule) Option {
	return func(r *Resolver) {
		r.fallback = cloneRule(rule)
	}
}

// Resolver dispatches on the selected model through a lookup table. It holds
// no mutable state after construction and is safe for concurrent use.
type Resolver struct {
	rules    map[model.Model]Rule
	fallback Rule
}

// New builds a resolver seeded with the built-in table.
func New(options ...Option) *Resolver {
	r := &Resolver{
		rules:    make(map[model.Model]Rule, len(defaultRules)),
		fallback: cloneRule(defaultFallback),
	}
	for _, rule := range defaultRules {
		r.rules[rule.Model] = cloneRule(rule)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

var defaultResolver = New()

// Resolve runs the built-in table against values.
func Resolve(values model.FormValues) Resolution {
	return defaultResolver.Resolve(values)
}

// Rule returns the rule applied for m and whether m has a dedicated entry.
func (r *Resolver) Rule(m model.Model) (Rule, bool) {
	if r == nil {
		return cloneRule(defaultFallback), false
	}
	rule, ok := r.rules[m]
	if !ok {
		return cloneRule(r.fallback), false
	}
	return cloneRule(rule), true
}

// Models lists the models with a dedicated rule, built-ins first in table
// order, then additions sorted by name.
func (r *Resolver) Models() []model.Model {
	if r == nil {
		return nil
	}
	out := make([]model.Model, 0, len(r.rules))
	seen := make(map[model.Model]struct{}, len(r.rules))
	for _, rule := range defaultRules {
		if _, ok := r.rules[rule.Model]; ok {
			out = append(out, rule.Model)
			seen[rule.Model] = struct{}{}
		}
	}
	var extra []model.Model
	for m := range r.rules {
		if _, ok := seen[m]; !ok {
			extra = append(extra, m)
		}
	}
	sortModels(extra)
	return append(out, extra...)
}

// Resolve computes the visibility state for values. Frame resets run before
// dispatch so a frame never outlives its source file.
func (r *Resolver) Resolve(values model.FormValues) Resolution {
	out := Resolution{Values: values.Clone()}

	if out.Values.FirstFile == nil && out.Values.FirstFrame != nil {
		out.Values.FirstFrame = nil
		out.Resets = append(out.Resets, model.FieldFirstFrame)
	}
	if out.Values.LastFile == nil && out.Values.LastFrame != nil {
		out.Values.LastFrame = nil
		out.Resets = append(out.Resets, model.FieldLastFrame)
	}

	signals := SignalsFrom(out.Values)
	rule, _ := r.Rule(signals.Model)

	out.Ready = signals.HasFiles() || signals.HasPrompt
	out.State.NeedsRatio = rule.RequiresRatio || signals.HasFiles()
	out.State.NeedsResize = rule.Resize
	out.State.RatioOptions = model.CloneOptions(rule.RatioOptions)

	fields := rule.Fields
	for _, branch := range rule.Branches {
		if branch.When == nil || !branch.When(signals) {
			continue
		}
		fields = omitFields(fields, branch.Omit)
		for _, name := range sortedForceKeys(branch.Force) {
			if err := out.Values.Set(name, branch.Force[name]); err != nil {
				continue
			}
			out.Resets = append(out.Resets, name)
		}
		break
	}
	out.State.Fields = append([]model.FieldName(nil), fields...)

	return out
}

func omitFields(fields, omit []model.FieldName) []model.FieldName {
	if len(omit) == 0 {
		return fields
	}
	drop := make(map[model.FieldName]struct{}, len(omit))
	for _, name := range omit {
		drop[name] = struct{}{}
	}
	out := make([]model.FieldName, 0, len(fields))
	for _, name := range fields {
		if _, ok := drop[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}

func cloneRule(rule Rule) Rule {
	out := rule
	out.RatioOptions = model.CloneOptions(rule.RatioOptions)
	out.Fields = append([]model.FieldName(nil), rule.Fields...)
	if len(rule.Branches) > 0 {
		out.Branches = make([]Branch, len(rule.Branches))
		for i, branch := range rule.Branches {
			out.Branches[i] = Branch{
				When: branch.When,
				Omit: append([]model.FieldName(nil), branch.Omit...),
			}
			if len(branch.Force) > 0 {
				out.Branches[i].Force = make(map[model.FieldName]string, len(branch.Force))
				for k, v := range branch.Force {
					out.Branches[i].Force[k] = v
				}
			}
		}
	}
	return out
}

// ValidateRule checks a rule references known fields only.
func ValidateRule(rule Rule) error {
	if strings.TrimSpace(string(rule.Model)) == "" {
		return fmt.Errorf("visibility: rule model is required")
	}
	check := func(names []model.FieldName, where string) error {
		for _, name := range names {
			if _, ok := model.ParseFieldName(string(name)); !ok {
				return fmt.Errorf("visibility: rule %q: unknown field %q in %s", rule.Model, name, where)
			}
		}
		return nil
	}
	if err := check(rule.Fields, "fields"); err != nil {
		return err
	}
	for i, branch := range rule.Branches {
		where := fmt.Sprintf("branches[%d]", i)
		if branch.When == nil {
			return fmt.Errorf("visibility: rule %q: %s has no predicate", rule.Model, where)
		}
		if err := check(branch.Omit, where+".omit"); err != nil {
			return err
		}
		for name := range branch.Force {
			if model.IsFileField(name) {
				return fmt.Errorf("visibility: rule %q: %s cannot force file field %q", rule.Model, where, name)
			}
			if err := check([]model.FieldName{name}, where+".force"); err != nil {
				return err
			}
		}
	}
	return nil
}
