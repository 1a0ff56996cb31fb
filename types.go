package params

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-params/pkg/activity"
)

// Option configures a Container at construction.
type Option func(*config)

type config struct {
	mutable       bool
	name          string
	iterator      IterationStrategy
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	logger        *slog.Logger
	activityHooks activity.Hooks
	emitter       *activity.Emitter
	errs          []error
}

func applyOptions(opts []Option) (*config, error) {
	cfg := &config{
		mutable:  true,
		iterator: InsertionOrder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if len(cfg.errs) > 0 {
		return nil, cfg.errs[0]
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = noopEvaluatorLogger{}
	}
	cfg.emitter = activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: len(cfg.activityHooks) > 0,
		Channel: activity.DefaultChannel,
	})
	return cfg, nil
}

// WithMutable selects the lifecycle state applied once the initial data is
// loaded. Containers are mutable by default.
func WithMutable(mutable bool) Option {
	return func(cfg *config) {
		cfg.mutable = mutable
	}
}

// WithName labels the container in log records and evaluation errors.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

// WithIterator sets the strategy used by All and Range.
func WithIterator(strategy IterationStrategy) Option {
	return func(cfg *config) {
		if strategy == nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("%w: iteration strategy is nil", ErrConfiguration))
			return
		}
		cfg.iterator = strategy
	}
}

// WithIteratorName resolves one of the built-in iteration strategies by name.
func WithIteratorName(name string) Option {
	return func(cfg *config) {
		strategy, err := IterationStrategyByName(name)
		if err != nil {
			cfg.errs = append(cfg.errs, err)
			return
		}
		cfg.iterator = strategy
	}
}

// WithEvaluator configures the rule evaluator used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithLogger sets the structured logger for operational messages.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// config returns the container's configuration, installing the defaults on a
// zero Container.
func (c *Container) config() *config {
	if c.cfg == nil {
		c.cfg, _ = applyOptions(nil)
	}
	return c.cfg
}

func (cfg *config) label() string {
	if cfg.name != "" {
		return cfg.name
	}
	return "params"
}

func (cfg *config) logQuery(engine, expr string, start time.Time, err error) {
	cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    cfg.label(),
		Duration: time.Since(start),
		Err:      err,
	})
}
