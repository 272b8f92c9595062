package internal

import "fmt"

// Position represents a location in the source template.
// Line is 1-indexed; Column counts bytes since the start of the line (0-indexed).
type Position struct {
	Offset int // Byte offset from start
	Line   int
	Column int
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// positionTracker maintains line and column while the lexer consumes source bytes.
type positionTracker struct {
	offset int
	line   int
	column int
}

func newPositionTracker() positionTracker {
	return positionTracker{line: 1}
}

// current returns the position of the next unconsumed byte
func (t *positionTracker) current() Position {
	return Position{Offset: t.offset, Line: t.line, Column: t.column}
}

// consume records that ch has been read
func (t *positionTracker) consume(ch byte) {
	t.offset++
	if ch == CharNewline {
		t.line++
		t.column = 0
		return
	}
	t.column++
}
