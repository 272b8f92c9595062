package pypage

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-pypage/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyntaxError(t *testing.T) {
	se := &SyntaxError{
		Kind:       ErrKindUnknownTag,
		Position:   Position{Offset: 12, Line: 2, Column: 4},
		OpenDelim:  TagOpenDelim,
		CloseDelim: TagCloseDelim,
		Source:     " bogus ",
	}

	err := NewSyntaxError(se)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgSyntax)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))

	tests := []struct {
		key      string
		expected string
	}{
		{key: MetaKeyKind, expected: string(ErrKindUnknownTag)},
		{key: MetaKeyLine, expected: "2"},
		{key: MetaKeyColumn, expected: "4"},
		{key: MetaKeyOffset, expected: "12"},
		{key: MetaKeyDelimiter, expected: TagOpenDelim},
		{key: MetaKeySource, expected: " bogus "},
	}
	for _, tt := range tests {
		value, ok := customErr.GetMetadata(tt.key)
		assert.True(t, ok, tt.key)
		assert.Equal(t, tt.expected, value, tt.key)
	}

	recovered, ok := AsSyntaxError(err)
	require.True(t, ok)
	assert.Same(t, se, recovered)
	assert.Equal(t, "Unknown/unrecognized tag: '{% bogus %}'", recovered.Description())
}

func TestParseErrorsCarryPosition(t *testing.T) {
	engine := MustNew()

	tests := []struct {
		name   string
		source string
		kind   SyntaxErrorKind
		line   int
		column int
	}{
		{name: "incomplete code", source: "ab\ncd {{ x", kind: ErrKindIncompleteDelimitedNode, line: 2, column: 3},
		{name: "multi-line tag", source: "{% for x\n in y %}", kind: ErrKindMultiLineTag, line: 1, column: 0},
		{name: "unbound close", source: "x{% %}", kind: ErrKindUnboundCloseTag, line: 1, column: 1},
		{name: "unclosed", source: "\n\n{% comment %}", kind: ErrKindUnclosedTag, line: 3, column: 0},
		{name: "incorrect for", source: "{% for x %}", kind: ErrKindIncorrectForTag, line: 1, column: 0},
		{name: "unknown", source: "{% endfor %}", kind: ErrKindUnknownTag, line: 1, column: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Parse(tt.source)
			require.Error(t, err)
			assert.True(t, IsSyntaxKind(err, tt.kind))

			var customErr *cuserr.CustomError
			require.True(t, errors.As(err, &customErr))
			line, _ := customErr.GetMetadata(MetaKeyLine)
			column, _ := customErr.GetMetadata(MetaKeyColumn)
			assert.Equal(t, strconv.Itoa(tt.line), line)
			assert.Equal(t, strconv.Itoa(tt.column), column)
		})
	}
}

func TestIsSyntaxKind_NonSyntaxErrors(t *testing.T) {
	assert.False(t, IsSyntaxKind(nil, ErrKindUnknownTag))
	assert.False(t, IsSyntaxKind(errors.New("plain"), ErrKindUnknownTag))
	assert.False(t, IsSyntaxKind(NewConfigError(ErrMsgNilEvaluator), ErrKindUnknownTag))
}

func TestWrapExecError(t *testing.T) {
	t.Run("engine failure is wrapped", func(t *testing.T) {
		ee := internal.NewExecutorError(internal.ErrMsgMaxDepthExceeded, Position{Line: 3, Column: 7})
		err := wrapExecError(ee)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		line, ok := customErr.GetMetadata(MetaKeyLine)
		assert.True(t, ok)
		assert.Equal(t, "3", line)
		assert.True(t, errors.Is(err, ee))
	})

	t.Run("evaluator failure is untouched", func(t *testing.T) {
		cause := errors.New("name 'x' is not defined")
		assert.Same(t, cause, wrapExecError(cause))
	})

	t.Run("context errors are untouched", func(t *testing.T) {
		assert.Same(t, context.Canceled, wrapExecError(context.Canceled))
	})
}
