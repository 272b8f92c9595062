package pypage

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-pypage/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgSyntax           = "template syntax error"
	ErrMsgExecutionFailed  = "template execution failed"
	ErrMsgNilTemplate      = "template is nil"
	ErrMsgNilEvaluator     = "evaluator cannot be nil"
	ErrMsgInvalidMaxDepth  = "max depth cannot be negative"
	ErrMsgInvalidLoopLimit = "loop time limit cannot be negative"
)

// Error code constants for categorization
const (
	ErrCodeSyntax = "PYPAGE_SYNTAX"
	ErrCodeExec   = "PYPAGE_EXEC"
	ErrCodeConfig = "PYPAGE_CONFIG"
)

// SyntaxError is a structural error found while lexing or building the tree.
// Use errors.As to recover it from errors returned by Parse.
type SyntaxError = internal.SyntaxError

// SyntaxErrorKind names one kind of structural error
type SyntaxErrorKind = internal.SyntaxErrorKind

// Position is a location in the template source
type Position = internal.Position

// Structural error kinds
const (
	ErrKindIncompleteDelimitedNode = internal.ErrKindIncompleteDelimitedNode
	ErrKindMultiLineTag            = internal.ErrKindMultiLineTag
	ErrKindUnboundCloseTag         = internal.ErrKindUnboundCloseTag
	ErrKindUnclosedTag             = internal.ErrKindUnclosedTag
	ErrKindIncorrectForTag         = internal.ErrKindIncorrectForTag
	ErrKindUnknownTag              = internal.ErrKindUnknownTag
)

// NewSyntaxError wraps a structural error with position metadata
func NewSyntaxError(se *SyntaxError) error {
	return cuserr.WrapStdError(se, ErrCodeSyntax, ErrMsgSyntax).
		WithMetadata(MetaKeyKind, string(se.Kind)).
		WithMetadata(MetaKeyLine, strconv.Itoa(se.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(se.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(se.Position.Offset)).
		WithMetadata(MetaKeyDelimiter, se.OpenDelim).
		WithMetadata(MetaKeySource, se.Source)
}

// NewExecutionError wraps an engine failure that did not come from the evaluator
func NewExecutionError(ee *internal.ExecutorError) error {
	return cuserr.WrapStdError(ee, ErrCodeExec, ErrMsgExecutionFailed).
		WithMetadata(MetaKeyLine, strconv.Itoa(ee.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(ee.Position.Column))
}

// NewConfigError creates an error for an invalid engine option
func NewConfigError(msg string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg)
}

// AsSyntaxError extracts the structural error from err, if there is one
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsSyntaxKind reports whether err is a structural error of the given kind
func IsSyntaxKind(err error, kind SyntaxErrorKind) bool {
	se, ok := AsSyntaxError(err)
	return ok && se.Kind == kind
}

// wrapParseError converts lexer/tree-builder failures to the public form
func wrapParseError(err error) error {
	if se, ok := AsSyntaxError(err); ok {
		return NewSyntaxError(se)
	}
	return err
}

// wrapExecError converts engine failures to the public form. Anything else
// came from the evaluator and is returned untouched.
func wrapExecError(err error) error {
	if ee, ok := err.(*internal.ExecutorError); ok {
		return NewExecutionError(ee)
	}
	return err
}
