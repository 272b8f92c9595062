package internal

import (
	"strings"

	"go.uber.org/zap"
)

// pendingKind identifies the node the lexer is currently accumulating
type pendingKind int

const (
	pendingText pendingKind = iota
	pendingCode
	pendingTag
)

// pendingNode is a node under construction
type pendingNode struct {
	kind pendingKind
	pos  Position
	body strings.Builder
}

func (p *pendingNode) openDelim() string {
	if p.kind == pendingTag {
		return StrTagOpen
	}
	return StrCodeOpen
}

func (p *pendingNode) closeDelim() string {
	if p.kind == pendingTag {
		return StrTagClose
	}
	return StrCodeClose
}

// Lexer scans template source into a flat sequence of text, code and tag nodes.
// Close markers are emitted as *CloseTag and consumed by the Parser.
type Lexer struct {
	source  string
	pos     int
	tracker positionTracker
	logger  *zap.Logger
}

// NewLexer creates a new lexer for source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source:  source,
		tracker: newPositionTracker(),
		logger:  logger,
	}
}

// Tokenize processes the source and returns the node stream.
// The first structural error stops the scan; no partial result is returned.
func (l *Lexer) Tokenize() ([]Node, error) {
	l.logger.Debug(LogMsgTokenizerStart)

	var nodes []Node
	var pending *pendingNode

	for !l.isAtEnd() {
		pos := l.tracker.current()

		if pending == nil || pending.kind == pendingText {
			if kind, ok := l.matchOpenDelim(); ok {
				if pending != nil {
					nodes = append(nodes, NewTextNode(pending.body.String(), pending.pos))
				}
				pending = &pendingNode{kind: kind, pos: pos}
				l.advanceN(LenDelim)
				continue
			}
			if pending == nil {
				pending = &pendingNode{kind: pendingText, pos: pos}
			}
		} else if l.matchStr(pending.closeDelim()) {
			node, err := l.finish(pending)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			pending = nil
			l.advanceN(LenDelim)
			continue
		}

		if l.matchStr(StrEscapeOpen) || l.matchStr(StrEscapeClose) {
			pending.body.WriteByte(l.source[l.pos+1])
			l.advanceN(LenEscape)
			continue
		}

		pending.body.WriteByte(l.advance())
	}

	if pending != nil {
		if pending.kind != pendingText {
			return nil, newIncompleteDelimitedNodeError(pending.openDelim(), pending.closeDelim(), pending.pos)
		}
		nodes = append(nodes, NewTextNode(pending.body.String(), pending.pos))
	}

	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldTokens, len(nodes)))
	return nodes, nil
}

// finish converts a closed delimited node into its final form
func (l *Lexer) finish(p *pendingNode) (Node, error) {
	body := p.body.String()
	if p.kind == pendingCode {
		return NewCodeNode(body, p.pos), nil
	}

	if strings.IndexByte(body, CharNewline) >= 0 {
		return nil, newMultiLineTagError(p.pos)
	}

	node, err := ClassifyTag(body, p.pos)
	if err != nil {
		return nil, err
	}
	l.logger.Debug(LogMsgTagClassified,
		zap.String(LogFieldKind, node.Type().String()),
		zap.Int(LogFieldLine, p.pos.Line),
		zap.Int(LogFieldColumn, p.pos.Column))
	return node, nil
}

// matchOpenDelim reports which delimited node, if any, opens at the current position
func (l *Lexer) matchOpenDelim() (pendingKind, bool) {
	switch {
	case l.matchStr(StrCodeOpen):
		return pendingCode, true
	case l.matchStr(StrTagOpen):
		return pendingTag, true
	default:
		return pendingText, false
	}
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	l.tracker.consume(ch)
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}
