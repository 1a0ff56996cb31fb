package params

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator indicates that no rule evaluator could be resolved.
var ErrNoEvaluator = errors.New("params: evaluator not configured")

// EvalContext carries the inputs a rule sees. Snapshot defaults to the
// container's recursive map snapshot.
type EvalContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Scope    string
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx EvalContext) scopeLabel() string {
	if ctx.Scope != "" {
		return ctx.Scope
	}
	return "unknown"
}

// snapshotMap exposes the top-level snapshot entries as rule variables.
func (ctx EvalContext) snapshotMap() map[string]any {
	if m, ok := ctx.Snapshot.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Evaluator executes rule expressions against an EvalContext.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable rule program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

type engineNamer interface {
	engine() string
}

// Evaluate runs expr against the container snapshot.
func (c *Container) Evaluate(expr string) (any, error) {
	return c.EvaluateWith(EvalContext{}, expr)
}

// EvaluateWith runs expr with ctx, filling a nil Snapshot from the container.
func (c *Container) EvaluateWith(ctx EvalContext, expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("params: expression must not be empty")
	}
	if c == nil {
		return nil, ErrNoEvaluator
	}
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Snapshot == nil {
		snapshot, err := c.ToMap(true)
		if err != nil {
			return nil, err
		}
		ctx.Snapshot = snapshot
	}
	if ctx.Scope == "" {
		ctx.Scope = c.config().label()
	}
	ctx = ctx.withDefaults()

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(engine, expr, ctx.scopeLabel(), evalErr)
	c.config().evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    ctx.scopeLabel(),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

// Compile prepares expr with the container's evaluator for repeated runs.
func (c *Container) Compile(expr string) (CompiledRule, error) {
	if c == nil {
		return nil, ErrNoEvaluator
	}
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, c.config().label(), err)
	}
	return rule, nil
}

func (c *Container) resolveEvaluator() (Evaluator, error) {
	cfg := c.config()
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(engineNamer); ok {
		return named.engine()
	}
	return "custom"
}
