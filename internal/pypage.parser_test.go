package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParser_Parse_Flat(t *testing.T) {
	root, err := Parse("Hello {{ name }}!", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, root.Children, 3)
	assert.Equal(t, NodeTypeText, root.Children[0].Type())
	assert.Equal(t, NodeTypeCode, root.Children[1].Type())
	assert.Equal(t, NodeTypeText, root.Children[2].Type())
}

func TestParser_Parse_Empty(t *testing.T) {
	root, err := Parse("", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, root.Children)
}

func TestParser_Parse_Nesting(t *testing.T) {
	src := "{% for i in range(2) %}[{% while dofirst false %}w{% %}]{% %}tail"

	root, err := Parse(src, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	forTag, ok := root.Children[0].(*ForTag)
	require.True(t, ok)
	require.Len(t, forTag.Children, 3)
	assert.Equal(t, "[", forTag.Children[0].(*TextNode).Content)
	assert.Equal(t, "]", forTag.Children[2].(*TextNode).Content)

	whileTag, ok := forTag.Children[1].(*WhileTag)
	require.True(t, ok)
	assert.True(t, whileTag.DoFirst)
	require.Len(t, whileTag.Children, 1)
	assert.Equal(t, "w", whileTag.Children[0].(*TextNode).Content)

	assert.Equal(t, "tail", root.Children[1].(*TextNode).Content)
}

func TestParser_Parse_NoCloseTagsInTree(t *testing.T) {
	root, err := Parse("{% comment %}{% for x in y %}{% %}{% %}", zap.NewNop())
	require.NoError(t, err)

	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			assert.NotEqual(t, NodeTypeClose, n.Type())
			if p, ok := n.(Parent); ok {
				walk(p.Nodes())
			}
		}
	}
	walk(root.Children)
}

func TestParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     SyntaxErrorKind
		position Position
		message  string
	}{
		{
			name:     "close without opener",
			input:    "abc{%  %}",
			kind:     ErrKindUnboundCloseTag,
			position: pos(3, 1, 3),
			message:  "Unbound closing tag '{%  %}' at line 1, column 3.",
		},
		{
			name:     "extra close",
			input:    "{% comment %}{% %}\n{% %}",
			kind:     ErrKindUnboundCloseTag,
			position: pos(19, 2, 0),
		},
		{
			name:     "unclosed outer tag",
			input:    "x\n{% for i in r %}{% while c %}{% %}",
			kind:     ErrKindUnclosedTag,
			position: pos(2, 2, 0),
			message:  "Missing closing '{% %}' tag for opening '{% for i in r %}' at line 2, column 0.",
		},
		{
			name:     "unclosed inner tag reported first",
			input:    "{% for i in r %}{% comment %}",
			kind:     ErrKindUnclosedTag,
			position: pos(16, 1, 16),
		},
		{
			name:     "malformed tag inside comment",
			input:    "{% comment %}{% bogus %}{% %}",
			kind:     ErrKindUnknownTag,
			position: pos(13, 1, 13),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input, zap.NewNop())
			require.Error(t, err)
			assert.Nil(t, root)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.position, se.Position)
			if tt.message != "" {
				assert.Equal(t, tt.message, se.Error())
			}
		})
	}
}

func TestParser_NilLogger(t *testing.T) {
	root, err := NewParser(nil, nil).Parse()
	require.NoError(t, err)
	assert.Empty(t, root.Children)
}
