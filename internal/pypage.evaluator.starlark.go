package internal

import (
	"context"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Starlark evaluator constants
const (
	StarlarkThreadName   = "pypage"
	StarlarkExprFile     = "<expr>"
	StarlarkBlockFile    = "<block>"
	StarlarkIterFile     = "<for>"
	BuiltinNameWrite     = "write"
	IterExprFmt          = "[(%s,) %s]"
	IterTargetSeparator  = ", "
	IndentChars          = " \t"
	ErrMsgNotIterable    = "iteration expression is not iterable"
	ErrFmtNotTuple       = "iteration expression yielded %s, want tuple"
	ErrFmtCannotConvert  = "cannot convert %T to a starlark value"
	ErrFmtContextStopped = "context stopped: %v"
)

// starlarkAliases are lowercase spellings of the constants, predeclared so
// templates written with true/false/none evaluate.
var starlarkAliases = starlark.StringDict{
	"true":  starlark.True,
	"false": starlark.False,
	"none":  starlark.None,
}

// StarlarkEvaluator evaluates template code as Starlark, a dialect of Python.
// Each call runs on a fresh thread so a cancelled context cannot affect later calls.
//
// Every statement block is its own Starlark module. Names it assigns are
// copied into the Environment afterwards, but a function defined by a block
// keeps reading that block's globals: a later {{ x = 5; }} is not seen by a
// def from an earlier block that refers to x. Pass such values as arguments,
// or mutate a shared list or dict, which both blocks see.
type StarlarkEvaluator struct {
	options *syntax.FileOptions
	logger  *zap.Logger
	print   PrintFunc
}

// PrintFunc receives the text of a Starlark print() call
type PrintFunc func(msg string)

// StarlarkOption configures a StarlarkEvaluator
type StarlarkOption func(*StarlarkEvaluator)

// WithPrintFunc routes print() output to fn instead of the logger
func WithPrintFunc(fn PrintFunc) StarlarkOption {
	return func(e *StarlarkEvaluator) {
		if fn != nil {
			e.print = fn
		}
	}
}

// NewStarlarkEvaluator creates the default evaluator.
// Top-level control flow, while loops, sets, recursion and global
// reassignment are all enabled.
//
// Without WithPrintFunc, print() is logged at Info level with the message in
// the "message" field, so a nil or no-op logger discards it.
func NewStarlarkEvaluator(logger *zap.Logger, opts ...StarlarkOption) *StarlarkEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgEvaluatorCreated, zap.String(LogFieldThread, StarlarkThreadName))
	e := &StarlarkEvaluator{
		options: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
		logger: logger,
	}
	e.print = func(msg string) {
		e.logger.Info(LogMsgScriptPrint, zap.String(LogFieldMessage, msg))
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate evaluates a single Starlark expression against env
func (e *StarlarkEvaluator) Evaluate(ctx context.Context, expr string, env *Environment) (Value, error) {
	thread, stop := e.newThread(ctx)
	defer stop()

	globals, err := e.globals(env)
	if err != nil {
		return nil, err
	}

	v, err := starlark.EvalOptions(e.options, thread, StarlarkExprFile, strings.TrimSpace(expr), globals)
	if err != nil {
		return nil, err
	}
	return starlarkValue{v: v}, nil
}

// Execute runs a Starlark statement block. Names the block assigns are
// written back to env; write is only visible for the duration of the call.
func (e *StarlarkEvaluator) Execute(ctx context.Context, block string, env *Environment, write WriteFunc) error {
	thread, stop := e.newThread(ctx)
	defer stop()

	e.logger.Debug(LogMsgEvaluatorExecBlock, zap.Int(LogFieldSource, len(block)))

	f, err := e.options.Parse(StarlarkBlockFile, Dedent(block), 0)
	if err != nil {
		return err
	}

	globals, err := e.globals(env)
	if err != nil {
		return err
	}
	globals[BuiltinNameWrite] = starlark.NewBuiltin(BuiltinNameWrite, writeBuiltin(write))

	execErr := starlark.ExecREPLChunk(f, thread, globals)

	for name, v := range globals {
		if name == BuiltinNameWrite {
			continue
		}
		if alias, ok := starlarkAliases[name]; ok && alias == v && !env.Has(name) {
			continue
		}
		env.Set(name, v)
	}
	return execErr
}

// Iterate evaluates [(targets,) <clause>] once and walks the resulting tuples
func (e *StarlarkEvaluator) Iterate(ctx context.Context, targets []string, clause string, env *Environment) (Iterator, error) {
	thread, stop := e.newThread(ctx)
	defer stop()

	globals, err := e.globals(env)
	if err != nil {
		return nil, err
	}

	expr := IterationExpression(targets, clause)
	seq, err := starlark.EvalOptions(e.options, thread, StarlarkIterFile, expr, globals)
	if err != nil {
		return nil, err
	}

	iter := starlark.Iterate(seq)
	if iter == nil {
		return nil, fmt.Errorf("%s: %s", ErrMsgNotIterable, seq.Type())
	}
	return &starlarkIterator{iter: iter}, nil
}

// IterationExpression builds the list comprehension whose elements are
// tuples of targets, in order, for the verbatim for-clause.
func IterationExpression(targets []string, clause string) string {
	return fmt.Sprintf(IterExprFmt, strings.Join(targets, IterTargetSeparator), clause)
}

// Dedent removes the leading whitespace common to every non-blank line, so
// blocks may be indented to match the surrounding template.
func Dedent(block string) string {
	lines := strings.Split(block, string(CharNewline))

	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == StringValueEmpty {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, IndentChars))
		if margin < 0 || width < margin {
			margin = width
		}
	}
	if margin <= 0 {
		return block
	}

	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, IndentChars)
		}
	}
	return strings.Join(lines, string(CharNewline))
}

// globals converts env into the Starlark environment for one call.
// Converted Go values are stored back so later calls share the same object.
func (e *StarlarkEvaluator) globals(env *Environment) (starlark.StringDict, error) {
	globals := make(starlark.StringDict, len(starlarkAliases)+env.Len())
	for name, v := range starlarkAliases {
		globals[name] = v
	}

	for name, raw := range env.Snapshot() {
		if v, ok := raw.(starlark.Value); ok {
			globals[name] = v
			continue
		}
		v, err := ToStarlark(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		env.Set(name, v)
		globals[name] = v
	}
	return globals, nil
}

func (e *StarlarkEvaluator) newThread(ctx context.Context) (*starlark.Thread, func() bool) {
	thread := &starlark.Thread{
		Name: StarlarkThreadName,
		Print: func(_ *starlark.Thread, msg string) {
			e.print(msg)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(fmt.Sprintf(ErrFmtContextStopped, ctx.Err()))
	})
	return thread, stop
}

func writeBuiltin(write WriteFunc) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
			return nil, err
		}
		write(Str(text))
		return starlark.None, nil
	}
}

// starlarkValue adapts a starlark.Value to Value
type starlarkValue struct {
	v starlark.Value
}

func (s starlarkValue) String() string {
	return Str(s.v)
}

func (s starlarkValue) Truth() bool {
	return bool(s.v.Truth())
}

// starlarkIterator adapts a starlark.Iterator over tuples to Iterator
type starlarkIterator struct {
	iter    starlark.Iterator
	current []any
	err     error
}

func (it *starlarkIterator) Next() bool {
	if it.err != nil {
		return false
	}
	var x starlark.Value
	if !it.iter.Next(&x) {
		return false
	}
	tuple, ok := x.(starlark.Tuple)
	if !ok {
		it.err = fmt.Errorf(ErrFmtNotTuple, x.Type())
		return false
	}
	it.current = make([]any, len(tuple))
	for i, v := range tuple {
		it.current[i] = v
	}
	return true
}

func (it *starlarkIterator) Values() []any {
	return it.current
}

func (it *starlarkIterator) Err() error {
	return it.err
}

func (it *starlarkIterator) Close() {
	it.iter.Done()
}
