package pypage

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	evaluator     Evaluator
	evaluatorSet  bool
	loopTimeLimit time.Duration
	maxDepth      int
	onDiagnostic  DiagnosticHandler
	logger        *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		loopTimeLimit: DefaultLoopTimeLimit,
		maxDepth:      DefaultMaxDepth,
	}
}

// validate rejects option combinations New cannot honour
func (c *engineConfig) validate() error {
	if c.evaluatorSet && c.evaluator == nil {
		return NewConfigError(ErrMsgNilEvaluator)
	}
	if c.maxDepth < 0 {
		return NewConfigError(ErrMsgInvalidMaxDepth)
	}
	if c.loopTimeLimit < 0 {
		return NewConfigError(ErrMsgInvalidLoopLimit)
	}
	return nil
}

// WithEvaluator sets the evaluator that runs embedded code.
// Default: a Starlark evaluator sharing the engine's logger.
func WithEvaluator(evaluator Evaluator) Option {
	return func(c *engineConfig) {
		c.evaluator = evaluator
		c.evaluatorSet = true
	}
}

// WithLoopTimeLimit sets how long a while loop not marked slow may run
// before it is stopped. Use NoLoopTimeLimit to disable the limit.
// Default: 2s
func WithLoopTimeLimit(limit time.Duration) Option {
	return func(c *engineConfig) {
		c.loopTimeLimit = limit
	}
}

// WithMaxDepth sets the maximum tag nesting depth during execution.
// Use 0 for unlimited depth.
// Default: 0
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithDiagnosticHandler registers a callback for non-fatal events such as a
// while loop stopped by the time limit.
func WithDiagnosticHandler(handler DiagnosticHandler) Option {
	return func(c *engineConfig) {
		c.onDiagnostic = handler
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
