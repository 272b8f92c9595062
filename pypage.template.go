package pypage

import (
	"context"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-pypage/internal"
)

// Template represents a parsed template that can be executed multiple times.
// The tree is never modified by execution.
type Template struct {
	source   string
	ast      *internal.RootNode
	executor *internal.Executor
}

func newTemplate(source string, ast *internal.RootNode, executor *internal.Executor) *Template {
	return &Template{
		source:   source,
		ast:      ast,
		executor: executor,
	}
}

// Execute renders the template against a fresh environment seeded with data.
func (t *Template) Execute(ctx context.Context, data map[string]any) (string, error) {
	return t.ExecuteEnv(ctx, NewEnvironment(data))
}

// ExecuteEnv renders the template against env. Assignments made by the
// template remain in env afterwards, so one env can carry state across runs.
func (t *Template) ExecuteEnv(ctx context.Context, env *Environment) (string, error) {
	if t == nil || t.ast == nil {
		return "", cuserr.NewValidationError(ErrCodeExec, ErrMsgNilTemplate)
	}
	if env == nil {
		env = NewEnvironment(nil)
	}
	result, err := t.executor.Execute(ctx, t.ast, env)
	if err != nil {
		return "", wrapExecError(err)
	}
	return result, nil
}

// Source returns the original template source string.
func (t *Template) Source() string {
	return t.source
}

// Tree returns an indented outline of the parsed template.
func (t *Template) Tree() string {
	return internal.DumpTree(t.ast)
}
