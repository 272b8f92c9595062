package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.uber.org/zap"
)

// scriptedEvaluator records every call and answers from the supplied hooks
type scriptedEvaluator struct {
	mu       sync.Mutex
	calls    []string
	evaluate func(expr string, env *Environment) (Value, error)
	execute  func(block string, env *Environment, write WriteFunc) error
	iterate  func(targets []string, clause string, env *Environment) (Iterator, error)
}

func (s *scriptedEvaluator) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *scriptedEvaluator) Evaluate(_ context.Context, expr string, env *Environment) (Value, error) {
	s.record(expr)
	if s.evaluate == nil {
		return textValue(expr), nil
	}
	return s.evaluate(expr, env)
}

func (s *scriptedEvaluator) Execute(_ context.Context, block string, env *Environment, write WriteFunc) error {
	s.record(block)
	if s.execute == nil {
		return nil
	}
	return s.execute(block, env, write)
}

func (s *scriptedEvaluator) Iterate(_ context.Context, targets []string, clause string, env *Environment) (Iterator, error) {
	s.record(clause)
	if s.iterate == nil {
		return &sliceIterator{}, nil
	}
	return s.iterate(targets, clause, env)
}

type textValue string

func (v textValue) String() string { return string(v) }
func (v textValue) Truth() bool    { return v != "" }

type boolValue bool

func (v boolValue) String() string { return "" }
func (v boolValue) Truth() bool    { return bool(v) }

type sliceIterator struct {
	rows   [][]any
	index  int
	err    error
	closed bool
}

func (it *sliceIterator) Next() bool {
	if it.index >= len(it.rows) {
		return false
	}
	it.index++
	return true
}

func (it *sliceIterator) Values() []any { return it.rows[it.index-1] }
func (it *sliceIterator) Err() error    { return it.err }
func (it *sliceIterator) Close()        { it.closed = true }

func render(t *testing.T, evaluator Evaluator, config ExecutorConfig, src string, env *Environment) (string, error) {
	t.Helper()
	root, err := Parse(src, zap.NewNop())
	require.NoError(t, err)
	return NewExecutor(evaluator, config, zap.NewNop()).Execute(context.Background(), root, env)
}

func renderStarlark(t *testing.T, src string, env *Environment) string {
	t.Helper()
	out, err := render(t, NewStarlarkEvaluator(zap.NewNop()), DefaultExecutorConfig(), src, env)
	require.NoError(t, err)
	return out
}

func TestExecutor_Text(t *testing.T) {
	eval := &scriptedEvaluator{}
	out, err := render(t, eval, DefaultExecutorConfig(), "just text", NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "just text", out)
	assert.Empty(t, eval.calls)
}

func TestExecutor_CodeDispatch(t *testing.T) {
	var executed []string
	eval := &scriptedEvaluator{
		evaluate: func(expr string, _ *Environment) (Value, error) {
			return textValue("E"), nil
		},
		execute: func(block string, _ *Environment, write WriteFunc) error {
			executed = append(executed, block)
			write("B1")
			write("B2")
			return nil
		},
	}

	out, err := render(t, eval, DefaultExecutorConfig(), "{{ x }}|{{ a = 1; }}|{{\nb = 2\n}}", NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "E|B1B2|B1B2", out)
	assert.Equal(t, []string{" a = 1; ", "\nb = 2\n"}, executed)
}

func TestExecutor_EvaluatorErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) { return nil, boom },
	}

	_, err := render(t, eval, DefaultExecutorConfig(), "a{{ x }}b", NewEnvironment(nil))
	assert.Same(t, boom, err)
}

func TestExecutor_CommentNeverEvaluates(t *testing.T) {
	eval := &scriptedEvaluator{}
	src := "a{% comment %}{{ boom }}{% for x in xs %}{{ x }}{% %}{% while y %}{% %}{% %}b"

	out, err := render(t, eval, DefaultExecutorConfig(), src, NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
	assert.Empty(t, eval.calls)
}

func TestExecutor_ForScoping(t *testing.T) {
	iter := &sliceIterator{rows: [][]any{{"1"}, {"2"}}}
	eval := &scriptedEvaluator{
		evaluate: func(expr string, env *Environment) (Value, error) {
			v, _ := env.Get("x")
			return textValue(v.(string)), nil
		},
		iterate: func(targets []string, clause string, _ *Environment) (Iterator, error) {
			assert.Equal(t, []string{"x"}, targets)
			assert.Equal(t, "for x in xs", clause)
			return iter, nil
		},
	}

	env := NewEnvironment(map[string]any{"x": "outer"})
	out, err := render(t, eval, DefaultExecutorConfig(), "{% for x in xs %}{{ x }}{% %}{{ x }}", env)
	require.NoError(t, err)
	assert.Equal(t, "12outer", out)
	assert.True(t, iter.closed)

	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, "outer", v)
}

func TestExecutor_ForRemovesFreshTargets(t *testing.T) {
	eval := &scriptedEvaluator{
		iterate: func([]string, string, *Environment) (Iterator, error) {
			return &sliceIterator{rows: [][]any{{1}}}, nil
		},
	}

	env := NewEnvironment(nil)
	_, err := render(t, eval, DefaultExecutorConfig(), "{% for n in ns %}{% %}", env)
	require.NoError(t, err)
	assert.False(t, env.Has("n"))
}

func TestExecutor_ForRestoresOnError(t *testing.T) {
	boom := errors.New("boom")
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) { return nil, boom },
		iterate: func([]string, string, *Environment) (Iterator, error) {
			return &sliceIterator{rows: [][]any{{"inner"}}}, nil
		},
	}

	env := NewEnvironment(map[string]any{"x": "outer"})
	_, err := render(t, eval, DefaultExecutorConfig(), "{% for x in xs %}{{ x }}{% %}", env)
	require.ErrorIs(t, err, boom)

	v, _ := env.Get("x")
	assert.Equal(t, "outer", v)
}

func TestExecutor_ForIteratorError(t *testing.T) {
	boom := errors.New("iteration failed")
	eval := &scriptedEvaluator{
		iterate: func([]string, string, *Environment) (Iterator, error) {
			return &sliceIterator{err: boom}, nil
		},
	}

	_, err := render(t, eval, DefaultExecutorConfig(), "{% for x in xs %}{% %}", NewEnvironment(nil))
	assert.Same(t, boom, err)
}

func TestBindTargets(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, bindTargets([]string{"a", "b"}, []any{1, 2}))
	assert.Equal(t, map[string]any{"a": 1}, bindTargets([]string{"a", "b"}, []any{1}))
	assert.Equal(t, map[string]any{"a": 1}, bindTargets([]string{"a"}, []any{1, 2}))
}

func TestExecutor_WhileDoFirst(t *testing.T) {
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) { return boolValue(false), nil },
	}

	out, err := render(t, eval, DefaultExecutorConfig(), "{% while dofirst c %}X{% %}", NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "X", out)
	assert.Equal(t, []string{"c"}, eval.calls)
}

func TestExecutor_WhileTimeLimit(t *testing.T) {
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) {
			time.Sleep(2 * time.Millisecond)
			return boolValue(true), nil
		},
	}

	var diagnostics []Diagnostic
	config := ExecutorConfig{
		LoopTimeLimit: time.Millisecond,
		OnDiagnostic:  func(d Diagnostic) { diagnostics = append(diagnostics, d) },
	}

	out, err := render(t, eval, config, "a\n{% while forever %}x{% %}b", NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "a\nxb", out)

	require.Len(t, diagnostics, 1)
	assert.Equal(t, DiagnosticLoopTerminated, diagnostics[0].Kind)
	assert.Equal(t, "Loop 'forever' terminated.", diagnostics[0].Message)
	assert.Equal(t, pos(2, 2, 0), diagnostics[0].Position)
	assert.Greater(t, diagnostics[0].Elapsed, time.Millisecond)
}

func TestExecutor_WhileSlowIgnoresLimit(t *testing.T) {
	remaining := 5
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) {
			time.Sleep(2 * time.Millisecond)
			remaining--
			return boolValue(remaining >= 0), nil
		},
	}

	var diagnostics []Diagnostic
	config := ExecutorConfig{
		LoopTimeLimit: time.Millisecond,
		OnDiagnostic:  func(d Diagnostic) { diagnostics = append(diagnostics, d) },
	}

	out, err := render(t, eval, config, "{% while busy slow %}x{% %}", NewEnvironment(nil))
	require.NoError(t, err)
	assert.Equal(t, "xxxxx", out)
	assert.Empty(t, diagnostics)
}

func TestExecutor_MaxDepth(t *testing.T) {
	eval := &scriptedEvaluator{
		evaluate: func(string, *Environment) (Value, error) { return boolValue(false), nil },
	}
	config := ExecutorConfig{MaxDepth: 2}

	_, err := render(t, eval, config, "{% while dofirst a %}{% while dofirst b %}x{% %}{% %}", NewEnvironment(nil))
	require.NoError(t, err)

	_, err = render(t, eval, config, "{% while dofirst a %}{% while dofirst b %}{% while dofirst c %}x{% %}{% %}{% %}", NewEnvironment(nil))
	var ee *ExecutorError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrMsgMaxDepthExceeded, ee.Message)
}

func TestExecutor_Starlark(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "arithmetic",
			src:      "{{ 1 + 2 }}",
			expected: "3",
		},
		{
			name:     "nested for",
			src:      "{% for i in range(2) %}{% for j in range(2) %}{{ i }}{{ j }},{% %}{% %}",
			expected: "00,01,10,11,",
		},
		{
			name:     "tuple targets in sorted order",
			src:      "{% for y, x in [(1, 'a'), (2, 'b')] %}{{ x }}{{ y }} {% %}",
			expected: "a1 b2 ",
		},
		{
			name:     "chained clauses with filter",
			src:      "{% for x in range(2) for y in range(2) if x != y %}{{ x }}{{ y }} {% %}",
			expected: "01 10 ",
		},
		{
			name:     "while with block update",
			src:      "{{ i = 0; }}{% while i < 3 %}{{ i }}{{ i += 1; }}{% %}",
			expected: "012",
		},
		{
			name:     "write inside block",
			src:      "{{\nfor n in range(3):\n    write(n)\n}}",
			expected: "012",
		},
		{
			name:     "indented block",
			src:      "{{\n    total = 0\n    for n in [1, 2, 3]:\n        total += n\n}}{{ total }}",
			expected: "6",
		},
		{
			name:     "lowercase constants",
			src:      "{% while dofirst false %}once{% %}",
			expected: "once",
		},
		{
			name:     "string values are unquoted",
			src:      "{{ 'hi' }} {{ ['a'] }}",
			expected: "hi [\"a\"]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderStarlark(t, tt.src, NewEnvironment(nil)))
		})
	}
}

func TestExecutor_Starlark_ForRestoresBinding(t *testing.T) {
	env := NewEnvironment(map[string]any{"x": "outer"})
	out := renderStarlark(t, "{% for x in [1, 2] %}{{ x }}{% %}{{ x }}", env)
	assert.Equal(t, "12outer", out)

	v, _ := env.Get("x")
	assert.Equal(t, starlark.String("outer"), v)
}

func TestExecutor_Starlark_ErrorUnchanged(t *testing.T) {
	_, err := render(t, NewStarlarkEvaluator(zap.NewNop()), DefaultExecutorConfig(), "{{ 1 // 0 }}", NewEnvironment(nil))
	var evalErr *starlark.EvalError
	assert.ErrorAs(t, err, &evalErr)
}
