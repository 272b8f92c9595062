package internal

import (
	"go.uber.org/zap"
)

// Parser nests the lexer's flat node stream into a tree. Each tag consumes
// the nodes that follow it up to its matching close marker.
type Parser struct {
	nodes  []Node
	pos    int
	logger *zap.Logger
}

// NewParser creates a new parser for the given node stream
func NewParser(nodes []Node, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(nodes)))
	return &Parser{
		nodes:  nodes,
		logger: logger,
	}
}

// Parse produces the AST root node from the node stream
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart)

	root := &RootNode{}
	if err := p.build(root); err != nil {
		return nil, err
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(root.Children)))
	return root, nil
}

// build appends nodes to parent until parent's close marker or the end of input
func (p *Parser) build(parent Parent) error {
	_, parentIsTag := parent.(Tag)

	for p.pos < len(p.nodes) {
		node := p.nodes[p.pos]
		p.pos++

		if closeTag, ok := node.(*CloseTag); ok {
			if parentIsTag {
				return nil
			}
			return newUnboundCloseTagError(closeTag)
		}

		parent.appendChild(node)

		if tag, ok := node.(Tag); ok {
			if err := p.build(tag); err != nil {
				return err
			}
		}
	}

	if parentIsTag {
		return newUnclosedTagError(parent.(Tag))
	}
	return nil
}

// Parse lexes and builds source in one step
func Parse(source string, logger *zap.Logger) (*RootNode, error) {
	nodes, err := NewLexer(source, logger).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(nodes, logger).Parse()
}
