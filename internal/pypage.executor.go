package internal

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DiagnosticKind classifies a non-fatal event raised during execution
type DiagnosticKind string

// Diagnostic kinds
const (
	DiagnosticLoopTerminated DiagnosticKind = "loop_terminated"
)

// Diagnostic message formats
const (
	DiagFmtLoopTerminated = "Loop '%s' terminated."
)

// Diagnostic reports a non-fatal event. Execution continues after it is raised.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Position Position
	Elapsed  time.Duration
}

// DiagnosticHandler receives diagnostics as they occur
type DiagnosticHandler func(Diagnostic)

// ExecutorConfig holds executor configuration options.
type ExecutorConfig struct {
	MaxDepth      int           // Maximum nesting depth (0 = unlimited)
	LoopTimeLimit time.Duration // Wall-clock budget for while loops not marked slow (0 = unlimited)
	OnDiagnostic  DiagnosticHandler
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxDepth:      DefaultMaxDepth,
		LoopTimeLimit: DefaultLoopTimeLimit,
	}
}

// Executor walks an AST depth-first and concatenates the text each node emits.
// All code evaluation is delegated to the Evaluator; the tree is never modified.
type Executor struct {
	evaluator Evaluator
	config    ExecutorConfig
	logger    *zap.Logger
}

// NewExecutor creates a new executor backed by evaluator.
func NewExecutor(evaluator Evaluator, config ExecutorConfig, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgExecutorCreated)

	return &Executor{
		evaluator: evaluator,
		config:    config,
		logger:    logger,
	}
}

// Execute processes the AST against env and returns the rendered output.
// Evaluator errors are returned exactly as the evaluator produced them.
func (e *Executor) Execute(ctx context.Context, root *RootNode, env *Environment) (string, error) {
	e.logger.Debug(LogMsgExecutorStart)

	result, err := e.executeNodes(ctx, root.Children, env, 0)
	if err != nil {
		return "", err
	}

	e.logger.Debug(LogMsgExecutorEnd)
	return result, nil
}

// executeNodes processes a slice of nodes and concatenates their output.
func (e *Executor) executeNodes(ctx context.Context, nodes []Node, env *Environment, depth int) (string, error) {
	if e.config.MaxDepth > 0 && depth > e.config.MaxDepth {
		pos := Position{}
		if len(nodes) > 0 {
			pos = nodes[0].Pos()
		}
		return "", NewExecutorError(ErrMsgMaxDepthExceeded, pos)
	}

	var sb strings.Builder

	for _, node := range nodes {
		output, err := e.executeNode(ctx, node, env, depth)
		if err != nil {
			return "", err
		}
		sb.WriteString(output)
	}

	return sb.String(), nil
}

// executeNode processes a single node and returns its output.
func (e *Executor) executeNode(ctx context.Context, node Node, env *Environment, depth int) (string, error) {
	switch n := node.(type) {
	case *TextNode:
		return n.Content, nil

	case *CodeNode:
		return e.executeCode(ctx, n, env)

	case *ForTag:
		e.logDispatch(n)
		return e.executeFor(ctx, n, env, depth)

	case *WhileTag:
		e.logDispatch(n)
		return e.executeWhile(ctx, n, env, depth)

	case *CommentTag:
		e.logDispatch(n)
		return e.executeComment(n)

	default:
		return "", NewExecutorError(ErrMsgUnknownNodeType, node.Pos())
	}
}

// executeCode evaluates an expression or runs a statement block.
func (e *Executor) executeCode(ctx context.Context, code *CodeNode, env *Environment) (string, error) {
	if !code.IsBlock() {
		value, err := e.evaluator.Evaluate(ctx, code.Source, env)
		if err != nil {
			return "", err
		}
		return value.String(), nil
	}

	var sb strings.Builder
	err := e.evaluator.Execute(ctx, code.Source, env, func(text string) {
		sb.WriteString(text)
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (e *Executor) logDispatch(tag Tag) {
	e.logger.Debug(LogMsgTagDispatch,
		zap.String(LogFieldTag, tag.Type().String()),
		zap.Int(LogFieldLine, tag.Pos().Line),
		zap.Int(LogFieldColumn, tag.Pos().Column))
}

// emit hands a diagnostic to the configured handler
func (e *Executor) emit(d Diagnostic) {
	if e.config.OnDiagnostic != nil {
		e.config.OnDiagnostic(d)
	}
}
