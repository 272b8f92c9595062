package internal

import "context"

// Value is the result of evaluating an expression.
type Value interface {
	// String returns the text emitted when the value is written to output
	String() string
	// Truth reports whether the value counts as true in a condition
	Truth() bool
}

// WriteFunc appends text to the output of the statement block being executed
type WriteFunc func(text string)

// Iterator walks the tuples produced by a for-tag's iteration expression.
// Exhaustion is reported by Next returning false with a nil Err.
type Iterator interface {
	// Next advances to the next tuple
	Next() bool
	// Values returns the current tuple, positionally matching the sorted targets
	Values() []any
	// Err returns the error that stopped iteration, if any
	Err() error
	// Close releases resources held by the iterator
	Close()
}

// Evaluator runs the code embedded in a template against an Environment.
// Errors returned by an Evaluator are passed to the caller unchanged.
type Evaluator interface {
	// Evaluate evaluates a single expression
	Evaluate(ctx context.Context, expr string, env *Environment) (Value, error)
	// Execute runs a statement block with write bound for the duration of the call
	Execute(ctx context.Context, block string, env *Environment, write WriteFunc) error
	// Iterate builds the iteration expression for clause (the verbatim
	// "for ... in ..." text) yielding tuples of targets, and evaluates it once.
	Iterate(ctx context.Context, targets []string, clause string, env *Environment) (Iterator, error)
}
