package internal

import "fmt"

// SyntaxErrorKind names one of the structural errors raised while lexing or building the tree
type SyntaxErrorKind string

// Syntax error kinds
const (
	ErrKindIncompleteDelimitedNode SyntaxErrorKind = "IncompleteDelimitedNode"
	ErrKindMultiLineTag            SyntaxErrorKind = "MultiLineTag"
	ErrKindUnboundCloseTag         SyntaxErrorKind = "UnboundCloseTag"
	ErrKindUnclosedTag             SyntaxErrorKind = "UnclosedTag"
	ErrKindIncorrectForTag         SyntaxErrorKind = "IncorrectForTag"
	ErrKindUnknownTag              SyntaxErrorKind = "UnknownTag"
)

// Description formats, one per kind
const (
	ErrFmtIncompleteDelimitedNode = "Missing closing '%s' for opening '%s' at line %d, column %d."
	ErrFmtMultiLineTag            = "The tag starting at line %d, column %d spans multiple lines. This is not permitted. All tags ('%s ... %s') must be on one line."
	ErrFmtUnboundCloseTag         = "Unbound closing tag '%s%s%s' at line %d, column %d."
	ErrFmtUnclosedTag             = "Missing closing '%s %s' tag for opening '%s %s %s' at line %d, column %d."
	ErrFmtIncorrectForTag         = "Incorrect pypage for tag syntax: '%s'"
	ErrFmtUnknownTag              = "Unknown/unrecognized tag: '%s%s%s'"
	ErrFmtUndefinedSyntax         = "undefined"
)

// SyntaxError is a position-carrying structural error from the lexer or tree builder
type SyntaxError struct {
	Kind       SyntaxErrorKind
	Position   Position
	OpenDelim  string
	CloseDelim string
	Source     string // the offending node body
}

// Description returns the human-readable explanation of the error
func (e *SyntaxError) Description() string {
	p := e.Position
	switch e.Kind {
	case ErrKindIncompleteDelimitedNode:
		return fmt.Sprintf(ErrFmtIncompleteDelimitedNode, e.CloseDelim, e.OpenDelim, p.Line, p.Column)
	case ErrKindMultiLineTag:
		return fmt.Sprintf(ErrFmtMultiLineTag, p.Line, p.Column, e.OpenDelim, e.CloseDelim)
	case ErrKindUnboundCloseTag:
		return fmt.Sprintf(ErrFmtUnboundCloseTag, e.OpenDelim, e.Source, e.CloseDelim, p.Line, p.Column)
	case ErrKindUnclosedTag:
		return fmt.Sprintf(ErrFmtUnclosedTag, e.OpenDelim, e.CloseDelim, e.OpenDelim, e.Source, e.CloseDelim, p.Line, p.Column)
	case ErrKindIncorrectForTag:
		return fmt.Sprintf(ErrFmtIncorrectForTag, e.Source)
	case ErrKindUnknownTag:
		return fmt.Sprintf(ErrFmtUnknownTag, e.OpenDelim, e.Source, e.CloseDelim)
	default:
		return ErrFmtUndefinedSyntax
	}
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return e.Description()
}

func newIncompleteDelimitedNodeError(open, close string, pos Position) *SyntaxError {
	return &SyntaxError{Kind: ErrKindIncompleteDelimitedNode, Position: pos, OpenDelim: open, CloseDelim: close}
}

func newMultiLineTagError(pos Position) *SyntaxError {
	return &SyntaxError{Kind: ErrKindMultiLineTag, Position: pos, OpenDelim: StrTagOpen, CloseDelim: StrTagClose}
}

func newUnboundCloseTagError(tag *CloseTag) *SyntaxError {
	return &SyntaxError{
		Kind:       ErrKindUnboundCloseTag,
		Position:   tag.Pos(),
		OpenDelim:  StrTagOpen,
		CloseDelim: StrTagClose,
		Source:     tag.Source(),
	}
}

func newUnclosedTagError(tag Tag) *SyntaxError {
	return &SyntaxError{
		Kind:       ErrKindUnclosedTag,
		Position:   tag.Pos(),
		OpenDelim:  StrTagOpen,
		CloseDelim: StrTagClose,
		Source:     tag.Source(),
	}
}

func newIncorrectForTagError(source string, pos Position) *SyntaxError {
	return &SyntaxError{
		Kind:       ErrKindIncorrectForTag,
		Position:   pos,
		OpenDelim:  StrTagOpen,
		CloseDelim: StrTagClose,
		Source:     source,
	}
}

func newUnknownTagError(source string, pos Position) *SyntaxError {
	return &SyntaxError{
		Kind:       ErrKindUnknownTag,
		Position:   pos,
		OpenDelim:  StrTagOpen,
		CloseDelim: StrTagClose,
		Source:     source,
	}
}

// ExecutorError represents an engine failure during execution that did not
// originate in the evaluator.
type ExecutorError struct {
	Message  string
	Position Position
}

// NewExecutorError creates a new executor error.
func NewExecutorError(message string, pos Position) *ExecutorError {
	return &ExecutorError{
		Message:  message,
		Position: pos,
	}
}

// Error implements the error interface.
func (e *ExecutorError) Error() string {
	return fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position.String())
}

// Executor error message constants
const (
	ErrMsgMaxDepthExceeded = "maximum nesting depth exceeded"
	ErrMsgUnknownNodeType  = "unknown node type"
	ErrFmtWithPosition     = "%s at %s"
)
