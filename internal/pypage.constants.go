package internal

import "time"

// NodeType identifies AST node types
type NodeType int

// Node type constants
const (
	NodeTypeRoot NodeType = iota
	NodeTypeText
	NodeTypeCode
	NodeTypeFor
	NodeTypeWhile
	NodeTypeComment
	NodeTypeClose
)

// Node type string names for debugging
const (
	NodeTypeNameRoot    = "ROOT"
	NodeTypeNameText    = "TEXT"
	NodeTypeNameCode    = "CODE"
	NodeTypeNameFor     = "FOR"
	NodeTypeNameWhile   = "WHILE"
	NodeTypeNameComment = "COMMENT"
	NodeTypeNameClose   = "CLOSE"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeRoot:
		return NodeTypeNameRoot
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypeCode:
		return NodeTypeNameCode
	case NodeTypeFor:
		return NodeTypeNameFor
	case NodeTypeWhile:
		return NodeTypeNameWhile
	case NodeTypeComment:
		return NodeTypeNameComment
	case NodeTypeClose:
		return NodeTypeNameClose
	default:
		return NodeTypeNameRoot
	}
}

// Character constants
const (
	CharOpenBrace  = '{'
	CharCloseBrace = '}'
	CharPercent    = '%'
	CharBackslash  = '\\'
	CharNewline    = '\n'
	CharSemicolon  = ';'
	CharUnderscore = '_'
	StrComma       = ","
)

// Delimiters
const (
	StrCodeOpen    = "{{"
	StrCodeClose   = "}}"
	StrTagOpen     = "{%"
	StrTagClose    = "%}"
	StrEscapeOpen  = "\\{"
	StrEscapeClose = "\\}"
)

// Delimiter lengths
const (
	LenDelim  = 2 // all delimiters are two characters
	LenEscape = 2 // \{ and \}
)

// Tag keywords
const (
	KeywordFor     = "for"
	KeywordIn      = "in"
	KeywordWhile   = "while"
	KeywordComment = "comment"
	KeywordDoFirst = "dofirst"
	KeywordSlow    = "slow"

	TagPrefixFor   = KeywordFor + " "
	TagPrefixWhile = KeywordWhile + " "
)

// Loop defaults
const (
	DefaultLoopTimeLimit = 2 * time.Second
	DefaultMaxDepth      = 0 // unlimited
)

// Code classification: a body containing any of these is a statement block
const (
	BlockMarkers = "\n;"
)

// Tree dump formatting
const (
	DumpIndentWidth  = 4
	DumpRootHeader   = "Root:"
	DumpTextHeader   = "Text:"
	DumpCodeHeader   = "Code:"
	DumpCloseHeader  = "CloseTag."
	DumpTagHeaderFmt = "%s %s %s:"
)

// String value constants
const (
	StringValueEmpty = ""
)

// Log message constants
const (
	LogMsgLexerCreated       = "lexer created"
	LogMsgTokenizerStart     = "starting tokenization"
	LogMsgTokenizerEnd       = "tokenization complete"
	LogMsgTagClassified      = "tag classified"
	LogMsgParserCreated      = "parser created"
	LogMsgParserStart        = "starting parse"
	LogMsgParserEnd          = "parse complete"
	LogMsgExecutorCreated    = "executor created"
	LogMsgExecutorStart      = "starting execution"
	LogMsgExecutorEnd        = "execution complete"
	LogMsgTagDispatch        = "tag dispatched"
	LogMsgForLoopEnd         = "for loop complete"
	LogMsgWhileLoopEnd       = "while loop complete"
	LogMsgLoopTerminated     = "loop terminated by time limit"
	LogMsgCommentSkipped     = "comment skipped"
	LogMsgEvaluatorCreated   = "evaluator created"
	LogMsgScriptPrint        = "script print"
	LogMsgEvaluatorExecBlock = "executing block"
)

// Log field name constants
const (
	LogFieldSource     = "source_length"
	LogFieldTokens     = "token_count"
	LogFieldNodes      = "node_count"
	LogFieldTag        = "tag"
	LogFieldKind       = "kind"
	LogFieldLine       = "line"
	LogFieldColumn     = "column"
	LogFieldIterations = "iterations"
	LogFieldElapsed    = "elapsed"
	LogFieldExpr       = "expr"
	LogFieldTargets    = "targets"
	LogFieldMessage    = "message"
	LogFieldThread     = "thread"
	LogFieldDepth      = "depth"
)
