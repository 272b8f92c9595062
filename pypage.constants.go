package pypage

import (
	"time"

	"github.com/itsatony/go-pypage/internal"
)

// Delimiter constants
const (
	CodeOpenDelim  = internal.StrCodeOpen
	CodeCloseDelim = internal.StrCodeClose
	TagOpenDelim   = internal.StrTagOpen
	TagCloseDelim  = internal.StrTagClose
)

// Tag keywords
const (
	KeywordFor     = internal.KeywordFor
	KeywordWhile   = internal.KeywordWhile
	KeywordComment = internal.KeywordComment
	KeywordDoFirst = internal.KeywordDoFirst
	KeywordSlow    = internal.KeywordSlow
)

// Engine defaults
const (
	// DefaultLoopTimeLimit bounds while loops that are not marked slow
	DefaultLoopTimeLimit = internal.DefaultLoopTimeLimit
	// DefaultMaxDepth leaves tag nesting unbounded; see WithMaxDepth
	DefaultMaxDepth = internal.DefaultMaxDepth
	// NoLoopTimeLimit disables the while-loop time limit
	NoLoopTimeLimit time.Duration = 0
)

// Metadata keys attached to structured errors
const (
	MetaKeyKind      = "kind"
	MetaKeyLine      = "line"
	MetaKeyColumn    = "column"
	MetaKeyOffset    = "offset"
	MetaKeyDelimiter = "delimiter"
	MetaKeySource    = "source"
)

// Log message constants
const (
	LogMsgEngineCreated  = "engine created"
	LogMsgParseFailed    = "template parse failed"
	LogMsgTemplateParsed = "template parsed"
)

// Log field constants
const (
	LogFieldLoopLimit = "loop_time_limit"
	LogFieldMaxDepth  = "max_depth"
	LogFieldKind      = "kind"
	LogFieldNodes     = "node_count"
)
