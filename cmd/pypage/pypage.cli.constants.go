package main

import "os"

// CLI identity
const (
	CLIName      = "pypage"
	CLIShort     = "Light-weight text templating with embedded code"
	CLILong      = `pypage renders a template file that mixes literal text with {{ code }} blocks
and {% tag %} control flow, and writes the result to standard output or a target file.
Output of print() in code blocks also goes to standard output.

A source file named like a subcommand (validate, tree, version) is rendered
with a path prefix or after "--": pypage ./tree, or pypage -- tree.`
	CLIUseRender = CLIName + " [--] <source_file>"
)

// Command names
const (
	CmdNameValidate = "validate"
	CmdNameTree     = "tree"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagTargetFile = "target_file"
	FlagEnvFile    = "env"
	FlagRootDir    = "root"
	FlagLoopLimit  = "loop-limit"
	FlagVerbose    = "verbose"
	FlagFormat     = "format"
)

// Flag names - short form
const (
	FlagTargetFileShort = "t"
	FlagEnvFileShort    = "e"
	FlagRootDirShort    = "r"
	FlagVerboseShort    = "v"
	FlagFormatShort     = "F"
)

// Flag usage strings
const (
	UsageTargetFile = "Target file name; default: stdout"
	UsageEnvFile    = "YAML file of initial variable bindings"
	UsageRootDir    = "Template directory; the source argument is then a path relative to it"
	UsageLoopLimit  = "Time limit for while loops not marked slow (0 disables)"
	UsageVerbose    = "Log engine activity to stderr"
	UsageFormat     = "Output format: text or yaml"
)

// Flag default values
const (
	FlagDefaultTarget = "-" // stdout
	FlagDefaultFormat = OutputFormatText
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeSuccess     = 0
	ExitCodeError       = 1
	ExitCodeUsageError  = 2
	ExitCodeSyntaxError = 3
	ExitCodeInputError  = 4
)

// File permissions for written output
const (
	FilePermissions os.FileMode = 0o644
)

// Error messages - ALL must be constants
const (
	ErrMsgFileNotFound      = "File %q does not exist."
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgReadEnvFailed     = "failed to load environment file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgEngineFailed      = "failed to create engine"
	ErrMsgLoggerFailed      = "failed to create logger"
	ErrMsgExecuteFailed     = "template execution failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgOpenStoreFailed   = "failed to open template directory"
)

// Output formats for messages
const (
	FmtError          = "Error: %v\n"
	FmtErrorWithCause = "Error: %s: %v\n"
	FmtSyntaxError    = "Syntax Error: %s\n"
	FmtDiagnostic     = "%s (line %d, column %d)\n"
	FmtValidOK        = "%s: OK\n"
)

// Version text
const (
	FmtVersionLine   = "%s v%s\n"
	FmtCommitLine    = "Commit: %s\n"
	FmtGoVersionLine = "Go version: %s\n"
	FmtOSArchLine    = "OS/Arch: %s/%s\n"
)
