package params

import (
	"errors"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "flag && missing", "user:1", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "flag && missing" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Scope != "user:1" {
		t.Fatalf("expected scope metadata, got %q", evalErr.Scope)
	}
	if !errors.Is(evalErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "group:9", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Scope != "group:9" {
		t.Fatalf("scope should be filled, got %q", existing.Scope)
	}
}

func TestEvaluationErrorMessage(t *testing.T) {
	err := &EvaluationError{Engine: "cel", Expr: "a > 1", Scope: "request", Err: errors.New("no such key")}
	want := `params: cel evaluator expr="a > 1" scope=request: no such key`
	if err.Error() != want {
		t.Fatalf("unexpected message:\nwant %s\n got %s", want, err.Error())
	}
	empty := &EvaluationError{Engine: "expr", Err: errors.New("x")}
	if got := empty.Error(); got != "params: expr evaluator expr=<empty> scope=: x" {
		t.Fatalf("unexpected empty expression message %q", got)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	if wrapEvaluatorError("expr", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	prefixed := errors.New("params: already described")
	if got := wrapEvaluatorError("expr", prefixed); got != prefixed {
		t.Fatalf("expected prefixed error returned as is, got %v", got)
	}
	base := errors.New("boom")
	got := wrapEvaluatorError("cel", base)
	if !errors.Is(got, base) || got.Error() != "params: cel evaluator: boom" {
		t.Fatalf("unexpected wrapped error %v", got)
	}
}
