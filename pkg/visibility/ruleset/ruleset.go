// Package ruleset loads visibility rules from YAML or JSON documents so new
// generation models can be added without recompiling. Branch conditions use
// the expr rule language and are compiled once at load time.
//
//	rules:
//	  - model: veo
//	    requiresRatio: true
//	    ratioOptions:
//	      - { value: "16:9", label: "16:9" }
//	    fields: [model, prompt, firstFile, firstFrame, ratio, time]
//	    branches:
//	      - when: 'hasFiles || type == "fast"'
//	        omit: [time]
//	        force: { time: 5s }
package ruleset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/visibility"
	"github.com/goliatone/go-vgenform/pkg/visibility/expr"
)

type document struct {
	Rules    []ruleDoc `yaml:"rules"`
	Fallback *ruleDoc  `yaml:"fallback"`
}

type ruleDoc struct {
	Model         string         `yaml:"model"`
	RequiresRatio bool           `yaml:"requiresRatio"`
	Resize        bool           `yaml:"resize"`
	RatioOptions  []model.Option `yaml:"ratioOptions"`
	Fields        []string       `yaml:"fields"`
	Branches      []branchDoc    `yaml:"branches"`
}

type branchDoc struct {
	When  string            `yaml:"when"`
	Omit  []string          `yaml:"omit"`
	Force map[string]string `yaml:"force"`
}

// Set is the parsed content of one or more rule documents.
type Set struct {
	Rules    []visibility.Rule
	Fallback *visibility.Rule
}

// Options turns the set into resolver options.
func (s Set) Options() []visibility.Option {
	opts := []visibility.Option{visibility.WithRules(s.Rules...)}
	if s.Fallback != nil {
		opts = append(opts, visibility.WithFallback(*s.Fallback))
	}
	return opts
}

// Parse decodes a single document. name is only used in error messages. JSON
// input is accepted since it is valid YAML.
func Parse(data []byte, name string) (Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Set{}, fmt.Errorf("ruleset: parse %s: %w", name, err)
	}

	var set Set
	seen := make(map[string]struct{}, len(doc.Rules))
	for i, raw := range doc.Rules {
		id := strings.TrimSpace(raw.Model)
		if id == "" {
			return Set{}, fmt.Errorf("ruleset: %s: rules[%d] has no model", name, i)
		}
		if _, dup := seen[id]; dup {
			return Set{}, fmt.Errorf("ruleset: %s: duplicate model %q", name, id)
		}
		seen[id] = struct{}{}

		rule, err := raw.compile(id)
		if err != nil {
			return Set{}, fmt.Errorf("ruleset: %s: %w", name, err)
		}
		set.Rules = append(set.Rules, rule)
	}

	if doc.Fallback != nil {
		rule, err := doc.Fallback.compile("fallback")
		if err != nil {
			return Set{}, fmt.Errorf("ruleset: %s: %w", name, err)
		}
		rule.Model = ""
		set.Fallback = &rule
	}
	return set, nil
}

// LoadFS walks fsys and merges every .yaml/.yml/.json document in lexical
// path order. A model defined in two files is an error.
func LoadFS(fsys fs.FS) (Set, error) {
	var set Set
	if fsys == nil {
		return set, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isRuleFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Set{}, fmt.Errorf("ruleset: walk: %w", err)
	}
	sort.Strings(paths)

	owners := make(map[model.Model]string)
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return Set{}, fmt.Errorf("ruleset: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return Set{}, err
		}
		for _, rule := range parsed.Rules {
			if owner, exists := owners[rule.Model]; exists {
				return Set{}, fmt.Errorf("ruleset: model %q defined in %s and %s", rule.Model, owner, path)
			}
			owners[rule.Model] = path
			set.Rules = append(set.Rules, rule)
		}
		if parsed.Fallback != nil {
			if set.Fallback != nil {
				return Set{}, fmt.Errorf("ruleset: fallback redefined in %s", path)
			}
			set.Fallback = parsed.Fallback
		}
	}
	return set, nil
}

func (r ruleDoc) compile(id string) (visibility.Rule, error) {
	rule := visibility.Rule{
		Model:         model.Model(id),
		RatioOptions:  r.RatioOptions,
		RequiresRatio: r.RequiresRatio,
		Resize:        r.Resize,
	}

	fields, err := fieldNames(r.Fields)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("rule %q: %w", id, err)
	}
	rule.Fields = fields

	for i, raw := range r.Branches {
		program, err := expr.Compile(raw.When)
		if err != nil {
			return visibility.Rule{}, fmt.Errorf("rule %q: branches[%d].when: %w", id, i, err)
		}
		omit, err := fieldNames(raw.Omit)
		if err != nil {
			return visibility.Rule{}, fmt.Errorf("rule %q: branches[%d].omit: %w", id, i, err)
		}
		branch := visibility.Branch{When: program.Predicate(), Omit: omit}
		if len(raw.Force) > 0 {
			branch.Force = make(map[model.FieldName]string, len(raw.Force))
			for key, value := range raw.Force {
				name, ok := model.ParseFieldName(key)
				if !ok {
					return visibility.Rule{}, fmt.Errorf("rule %q: branches[%d].force: unknown field %q", id, i, key)
				}
				branch.Force[name] = value
			}
		}
		rule.Branches = append(rule.Branches, branch)
	}

	if err := visibility.ValidateRule(rule); err != nil {
		return visibility.Rule{}, err
	}
	return rule, nil
}

func fieldNames(raw []string) ([]model.FieldName, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]model.FieldName, 0, len(raw))
	for _, entry := range raw {
		name, ok := model.ParseFieldName(entry)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", entry)
		}
		out = append(out, name)
	}
	return out, nil
}

func isRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
