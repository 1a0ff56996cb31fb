package params

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func ruleFixture(t *testing.T, opts ...Option) *Container {
	t.Helper()
	c, err := New(map[string]any{
		"features": map[string]any{"beta": true, "quota": 10},
		"name":     "demo",
		"tags":     []any{"a", "b"},
	}, opts...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return c
}

func TestEvaluateExprDefault(t *testing.T) {
	c := ruleFixture(t)
	tests := []struct {
		expr string
		want any
	}{
		{expr: "features.beta && features.quota > 5", want: true},
		{expr: `name + "!"`, want: "demo!"},
		{expr: "len(tags)", want: 2},
		{expr: `scope`, want: "params"},
	}
	for _, tc := range tests {
		got, err := c.Evaluate(tc.expr)
		if err != nil {
			t.Fatalf("evaluate %q: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("evaluate %q: expected %v (%T), got %v (%T)", tc.expr, tc.want, tc.want, got, got)
		}
	}
}

func TestEvaluateWithContext(t *testing.T) {
	c := ruleFixture(t, WithName("request"))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got, err := c.EvaluateWith(EvalContext{
		Now:      &now,
		Args:     map[string]any{"limit": 20},
		Metadata: map[string]any{"tenant": "acme"},
	}, `features.quota < args.limit && metadata.tenant == "acme" && scope == "request"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}

	got, err = c.EvaluateWith(EvalContext{Snapshot: map[string]any{"name": "override"}}, "name")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "override" {
		t.Fatalf("explicit snapshot should win, got %v", got)
	}
}

func TestEvaluateCEL(t *testing.T) {
	c := ruleFixture(t, WithEvaluator(NewCELEvaluator()), WithName("cel-test"))
	got, err := c.Evaluate(`features.beta && features.quota > 5 && name == "demo" && scope == "cel-test"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}

func TestEvaluateCELCustomFunction(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("double expects one argument")
		}
		n, ok := args[0].(int64)
		if !ok {
			return nil, fmt.Errorf("double expects an int, got %T", args[0])
		}
		return n * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := ruleFixture(t, WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(registry))))
	got, err := c.Evaluate(`call("double", [features.quota]) == 20`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}

func TestEvaluateExprCustomFunction(t *testing.T) {
	c := ruleFixture(t, WithCustomFunction("shout", func(args ...any) (any, error) {
		return strings.ToUpper(fmt.Sprint(args...)), nil
	}))
	got, err := c.Evaluate(`shout(name)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "DEMO" {
		t.Fatalf("expected DEMO, got %v", got)
	}
	got, err = c.Evaluate(`call("shout", "x")`)
	if err != nil {
		t.Fatalf("evaluate call: %v", err)
	}
	if got != "X" {
		t.Fatalf("expected X, got %v", got)
	}
}

func TestWithCustomFunctionDuplicate(t *testing.T) {
	fn := func(...any) (any, error) { return nil, nil }
	_, err := New(nil, WithCustomFunction("f", fn), WithCustomFunction("F", fn))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestEvaluateErrorsCarryMetadata(t *testing.T) {
	c := ruleFixture(t, WithName("request"))
	_, err := c.Evaluate("features.quota +")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T (%v)", err, err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "features.quota +" || evalErr.Scope != "request" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}

	if _, err := c.Evaluate(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestEvaluateCustomEvaluator(t *testing.T) {
	custom := &recordingEvaluator{result: "ok"}
	c := ruleFixture(t, WithEvaluator(custom))
	got, err := c.Evaluate("anything")
	if err != nil || got != "ok" {
		t.Fatalf("expected ok, got %v %v", got, err)
	}
	if custom.seen.Now == nil || custom.seen.Args == nil || custom.seen.Metadata == nil {
		t.Fatalf("expected defaults filled, got %+v", custom.seen)
	}
	if custom.seen.Scope != "params" {
		t.Fatalf("expected default scope label, got %q", custom.seen.Scope)
	}
	snapshot, ok := custom.seen.Snapshot.(map[string]any)
	if !ok || snapshot["name"] != "demo" {
		t.Fatalf("expected container snapshot, got %#v", custom.seen.Snapshot)
	}

	custom.err = errors.New("boom")
	_, err = c.Evaluate("anything")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "custom" {
		t.Fatalf("expected custom engine error, got %v", err)
	}
}

func TestCompileReusesProgram(t *testing.T) {
	cache := NewMemoryCache()
	c := ruleFixture(t, WithProgramCache(cache))
	rule, err := c.Compile("features.quota * 2")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, quota := range []int{1, 5} {
		got, err := rule.Evaluate(EvalContext{Snapshot: map[string]any{"features": map[string]any{"quota": quota}}})
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if got != quota*2 {
			t.Fatalf("expected %d, got %v", quota*2, got)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestSlogEvaluatorLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := ruleFixture(t, WithEvaluatorLogger(SlogEvaluatorLogger(logger)))
	if _, err := c.Evaluate("name"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, err := c.Evaluate("name +"); err == nil {
		t.Fatalf("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "params: evaluated") || !strings.Contains(out, "params: evaluation failed") {
		t.Fatalf("expected both log records, got:\n%s", out)
	}
	if !strings.Contains(out, "engine=expr") {
		t.Fatalf("expected engine attribute, got:\n%s", out)
	}
}

func TestJSEvaluatorAvailability(t *testing.T) {
	e := NewJSEvaluator()
	if jsEvaluatorAvailable() {
		if e == nil {
			t.Fatalf("expected JS evaluator when built with js_eval")
		}
		got, err := ruleFixture(t, WithEvaluator(e)).Evaluate("features.quota + 1")
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if fmt.Sprint(got) != "11" {
			t.Fatalf("expected 11, got %v", got)
		}
		return
	}
	if e != nil {
		t.Fatalf("expected nil JS evaluator without js_eval")
	}
}

type recordingEvaluator struct {
	seen   EvalContext
	result any
	err    error
}

func (r *recordingEvaluator) Evaluate(ctx EvalContext, _ string) (any, error) {
	r.seen = ctx
	return r.result, r.err
}

func (r *recordingEvaluator) Compile(expr string) (CompiledRule, error) {
	return nil, errors.New("not supported")
}
