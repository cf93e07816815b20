package expr

import (
	"testing"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{
			"model":    "kling",
			"type":     "fast",
			"hasFiles": false,
			"prompt":   "a cat",
			"loop":     "true",
		},
		Extras: map[string]any{"plan": "pro"},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{``, true},
		{`hasFiles`, false},
		{`!hasFiles`, true},
		{`type == "fast"`, true},
		{`type == 'fast'`, true},
		{`type == fast`, true},
		{`type != "fast"`, false},
		{`type == "fast" || hasFiles`, true},
		{`type == "standard" || hasFiles`, false},
		{`model == "kling" && !hasFiles`, true},
		{`(model == "luma" || model == "kling") && type == "fast"`, true},
		{`loop == true`, true},
		{`missing == null`, true},
		{`prompt != null`, true},
		{`extras.plan == "pro"`, true},
		{`extras.plan == "free"`, false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval(tc.rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		`type = "fast"`,
		`hasFiles & hasPrompt`,
		`type == "fast`,
		`(hasFiles`,
		`type ==`,
		`== "fast"`,
		`hasFiles hasPrompt`,
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("Compile(%q) expected error", rule)
		}
	}
}

func TestProgramPredicate(t *testing.T) {
	t.Parallel()

	program, err := Compile(`type == "fast" || hasFiles`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if program.String() != `type == "fast" || hasFiles` {
		t.Fatalf("unexpected source %q", program.String())
	}

	predicate := program.Predicate()
	if !predicate(visibility.Signals{Model: model.ModelKling, HasLastFile: true}) {
		t.Fatalf("expected predicate to match when a file is attached")
	}
	if predicate(visibility.Signals{Model: model.ModelKling, Type: "standard"}) {
		t.Fatalf("expected predicate to reject standard without files")
	}
}

func TestEvaluatorImplementations(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{"hasFiles": true}}
	evaluators := map[string]visibility.Evaluator{
		"expr": New(),
		"func": visibility.EvaluatorFunc(func(rule string, ctx visibility.Context) (bool, error) {
			return rule == "hasFiles" && ctx.Values["hasFiles"] == true, nil
		}),
	}
	for name, evaluator := range evaluators {
		ok, err := evaluator.Eval("hasFiles", ctx)
		if err != nil || !ok {
			t.Fatalf("%s: expected true, got %v (err %v)", name, ok, err)
		}
	}
}
