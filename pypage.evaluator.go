package pypage

import (
	"github.com/itsatony/go-pypage/internal"
	"go.uber.org/zap"
)

// Evaluator runs the code embedded in templates. See internal.Evaluator for
// the contract: Evaluate for expressions and conditions, Execute for
// statement blocks with a write capability, Iterate for for-tags.
type Evaluator = internal.Evaluator

// Value is an evaluated expression
type Value = internal.Value

// Iterator walks the tuples of a for-tag
type Iterator = internal.Iterator

// WriteFunc appends text to a statement block's output
type WriteFunc = internal.WriteFunc

// Diagnostic reports a non-fatal event during execution
type Diagnostic = internal.Diagnostic

// DiagnosticHandler receives diagnostics
type DiagnosticHandler = internal.DiagnosticHandler

// DiagnosticKind classifies diagnostics
type DiagnosticKind = internal.DiagnosticKind

// Diagnostic kinds
const (
	DiagnosticLoopTerminated = internal.DiagnosticLoopTerminated
)

// StarlarkEvaluator is the default Evaluator
type StarlarkEvaluator = internal.StarlarkEvaluator

// StarlarkOption configures a StarlarkEvaluator
type StarlarkOption = internal.StarlarkOption

// PrintFunc receives the text of a Starlark print() call
type PrintFunc = internal.PrintFunc

// NewStarlarkEvaluator creates a Starlark evaluator. print() output is
// logged at Info level unless WithPrintFunc is given.
func NewStarlarkEvaluator(logger *zap.Logger, opts ...StarlarkOption) *StarlarkEvaluator {
	return internal.NewStarlarkEvaluator(logger, opts...)
}

// WithPrintFunc routes Starlark print() output to fn
func WithPrintFunc(fn PrintFunc) StarlarkOption {
	return internal.WithPrintFunc(fn)
}

// GoValue converts a value stored in an Environment by the Starlark
// evaluator back to plain Go data (string, int64, float64, bool, []any,
// map[string]any or nil).
func GoValue(v any) any {
	return internal.ToGo(v)
}
