package pypage

import (
	"context"
	"time"

	"github.com/itsatony/go-pypage/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point for the pypage templating system.
// It parses templates and executes them with its evaluator.
type Engine struct {
	config   *engineConfig
	executor *internal.Executor
	logger   *zap.Logger
}

// New creates a new pypage Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluator := config.evaluator
	if evaluator == nil {
		evaluator = internal.NewStarlarkEvaluator(logger)
	}

	executorConfig := internal.ExecutorConfig{
		MaxDepth:      config.maxDepth,
		LoopTimeLimit: config.loopTimeLimit,
		OnDiagnostic:  config.onDiagnostic,
	}
	executor := internal.NewExecutor(evaluator, executorConfig, logger)

	logger.Debug(LogMsgEngineCreated,
		zap.Duration(LogFieldLoopLimit, config.loopTimeLimit),
		zap.Int(LogFieldMaxDepth, config.maxDepth))

	return &Engine{
		config:   config,
		executor: executor,
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse parses a template source string and returns a Template.
// The returned Template can be executed multiple times.
func (e *Engine) Parse(source string) (*Template, error) {
	ast, err := internal.Parse(source, e.logger)
	if err != nil {
		if se, ok := AsSyntaxError(err); ok {
			e.logger.Debug(LogMsgParseFailed, zap.String(LogFieldKind, string(se.Kind)))
		}
		return nil, wrapParseError(err)
	}

	e.logger.Debug(LogMsgTemplateParsed, zap.Int(LogFieldNodes, len(ast.Children)))
	return newTemplate(source, ast, e.executor), nil
}

// Validate checks the template's tag structure without executing it.
func (e *Engine) Validate(source string) error {
	_, err := e.Parse(source)
	return err
}

// Execute is a convenience method that parses and executes in one step.
// For templates that will be executed multiple times, use Parse() instead.
func (e *Engine) Execute(ctx context.Context, source string, data map[string]any) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(ctx, data)
}

// LoopTimeLimit returns the configured while-loop time limit.
func (e *Engine) LoopTimeLimit() time.Duration {
	return e.config.loopTimeLimit
}

// MaxDepth returns the configured maximum nesting depth.
func (e *Engine) MaxDepth() int {
	return e.config.maxDepth
}
