package params

import (
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes one query or rule evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Scope    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluation events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogEvaluatorLogger writes events to logger: failures at warn level,
// successes at debug level.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		attrs := []any{
			"engine", event.Engine,
			"expr", event.Expr,
			"scope", event.Scope,
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Warn("params: evaluation failed", append(attrs, "error", event.Err)...)
			return
		}
		logger.Debug("params: evaluated", attrs...)
	})
}

// WithEvaluatorLogger receives an event per Query, QueryPath and Evaluate
// call.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}
