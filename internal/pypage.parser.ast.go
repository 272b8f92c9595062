package internal

import (
	"fmt"
	"strings"
)

// Node is the interface all AST nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// Parent is a node that owns an ordered list of children.
// Only the tree builder appends children; execution never mutates the tree.
type Parent interface {
	Node
	Nodes() []Node
	appendChild(child Node)
}

// Tag is implemented by every control-flow tag that encloses a body.
type Tag interface {
	Parent
	// Source returns the trimmed tag body as written between the delimiters
	Source() string
}

// RootNode is the top-level container for an AST
type RootNode struct {
	Children []Node
}

// Type returns NodeTypeRoot
func (n *RootNode) Type() NodeType {
	return NodeTypeRoot
}

// Pos returns a zero position (root has no specific position)
func (n *RootNode) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 0}
}

// Nodes returns the root's children
func (n *RootNode) Nodes() []Node {
	return n.Children
}

func (n *RootNode) appendChild(child Node) {
	n.Children = append(n.Children, child)
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextNode represents literal text content
type TextNode struct {
	pos     Position
	Content string
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType {
	return NodeTypeText
}

// Pos returns the source position
func (n *TextNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *TextNode) String() string {
	return fmt.Sprintf("TextNode{%q @ %s}", n.Content, n.pos)
}

// NewTextNode creates a new text node
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{
		pos:     pos,
		Content: content,
	}
}

// CodeNode holds an expression or statement block delimited by {{ }}
type CodeNode struct {
	pos    Position
	Source string
}

// Type returns NodeTypeCode
func (n *CodeNode) Type() NodeType {
	return NodeTypeCode
}

// Pos returns the position of the opening delimiter
func (n *CodeNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *CodeNode) String() string {
	return fmt.Sprintf("CodeNode{%q @ %s}", n.Source, n.pos)
}

// IsBlock reports whether the body must be executed as statements rather
// than evaluated as a single expression.
func (n *CodeNode) IsBlock() bool {
	return strings.ContainsAny(n.Source, BlockMarkers)
}

// NewCodeNode creates a new code node
func NewCodeNode(source string, pos Position) *CodeNode {
	return &CodeNode{
		pos:    pos,
		Source: source,
	}
}

// tagBase carries the fields shared by every enclosing tag
type tagBase struct {
	pos      Position
	source   string
	Children []Node
}

func (t *tagBase) Pos() Position {
	return t.pos
}

func (t *tagBase) Source() string {
	return t.source
}

func (t *tagBase) Nodes() []Node {
	return t.Children
}

func (t *tagBase) appendChild(child Node) {
	t.Children = append(t.Children, child)
}

// ForTag iterates its children over a for ... in ... clause
type ForTag struct {
	tagBase
	Targets []string // sorted, unique identifiers bound on each iteration
}

// Type returns NodeTypeFor
func (n *ForTag) Type() NodeType {
	return NodeTypeFor
}

// String returns a string representation
func (n *ForTag) String() string {
	return fmt.Sprintf("ForTag{%q, targets=%v, children=%d @ %s}", n.source, n.Targets, len(n.Children), n.pos)
}

// NewForTag creates a for tag from its trimmed source and extracted targets
func NewForTag(source string, targets []string, pos Position) *ForTag {
	return &ForTag{
		tagBase: tagBase{pos: pos, source: source},
		Targets: targets,
	}
}

// WhileTag repeats its children while a condition holds
type WhileTag struct {
	tagBase
	Condition string
	DoFirst   bool // run the body once before the first check
	Slow      bool // exempt from the loop time limit
}

// Type returns NodeTypeWhile
func (n *WhileTag) Type() NodeType {
	return NodeTypeWhile
}

// String returns a string representation
func (n *WhileTag) String() string {
	return fmt.Sprintf("WhileTag{%q, dofirst=%t, slow=%t, children=%d @ %s}",
		n.Condition, n.DoFirst, n.Slow, len(n.Children), n.pos)
}

// NewWhileTag creates a while tag
func NewWhileTag(source, condition string, doFirst, slow bool, pos Position) *WhileTag {
	return &WhileTag{
		tagBase:   tagBase{pos: pos, source: source},
		Condition: condition,
		DoFirst:   doFirst,
		Slow:      slow,
	}
}

// CommentTag swallows its children at execution time
type CommentTag struct {
	tagBase
}

// Type returns NodeTypeComment
func (n *CommentTag) Type() NodeType {
	return NodeTypeComment
}

// String returns a string representation
func (n *CommentTag) String() string {
	return fmt.Sprintf("CommentTag{children=%d @ %s}", len(n.Children), n.pos)
}

// NewCommentTag creates a comment tag
func NewCommentTag(source string, pos Position) *CommentTag {
	return &CommentTag{tagBase: tagBase{pos: pos, source: source}}
}

// CloseTag terminates the innermost open tag. It never appears in a built tree.
type CloseTag struct {
	pos    Position
	source string // raw, whitespace-only body
}

// Type returns NodeTypeClose
func (n *CloseTag) Type() NodeType {
	return NodeTypeClose
}

// Pos returns the source position
func (n *CloseTag) Pos() Position {
	return n.pos
}

// Source returns the untrimmed body
func (n *CloseTag) Source() string {
	return n.source
}

// String returns a string representation
func (n *CloseTag) String() string {
	return fmt.Sprintf("CloseTag{@ %s}", n.pos)
}

// NewCloseTag creates a close marker
func NewCloseTag(source string, pos Position) *CloseTag {
	return &CloseTag{pos: pos, source: source}
}
