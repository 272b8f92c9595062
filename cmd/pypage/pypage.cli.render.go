package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/itsatony/go-pypage"
	"go.uber.org/zap"
)

var (
	errorColor      = color.New(color.FgRed, color.Bold)
	diagnosticColor = color.New(color.FgYellow)
	okColor         = color.New(color.FgGreen)
)

// renderOptions holds the flags shared by the render, validate and tree commands
type renderOptions struct {
	sourcePath string
	targetPath string
	envPath    string
	rootDir    string
	loopLimit  time.Duration
	verbose    bool
}

func defaultLoopLimit() time.Duration {
	return pypage.DefaultLoopTimeLimit
}

func runRender(opts *renderOptions, stdout, stderr io.Writer) error {
	tmpl, err := parseSource(opts, stdout, stderr)
	if err != nil {
		return err
	}

	data, err := loadEnv(opts.envPath)
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadEnvFailed, err)
		return &exitError{code: ExitCodeInputError}
	}

	result, err := tmpl.Execute(context.Background(), data)
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgExecuteFailed, err)
		return &exitError{code: ExitCodeError}
	}

	if err := writeOutput(opts.targetPath, []byte(result), stdout); err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return &exitError{code: ExitCodeError}
	}

	return nil
}

// newEngine builds an engine whose diagnostics are printed to stderr and
// whose Starlark print() calls are written to stdout
func newEngine(opts *renderOptions, stdout, stderr io.Writer) (*pypage.Engine, error) {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoggerFailed, err)
		return nil, &exitError{code: ExitCodeError}
	}

	evaluator := pypage.NewStarlarkEvaluator(logger, pypage.WithPrintFunc(func(msg string) {
		fmt.Fprintln(stdout, msg)
	}))

	engine, err := pypage.New(
		pypage.WithLogger(logger),
		pypage.WithEvaluator(evaluator),
		pypage.WithLoopTimeLimit(opts.loopLimit),
		pypage.WithDiagnosticHandler(func(d pypage.Diagnostic) {
			diagnosticColor.Fprintf(stderr, FmtDiagnostic, d.Message, d.Position.Line, d.Position.Column)
		}),
	)
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return nil, &exitError{code: ExitCodeUsageError}
	}
	return engine, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// reportParseError prints a structural error's description, not a trace
func reportParseError(err error, stderr io.Writer) error {
	if se, ok := pypage.AsSyntaxError(err); ok {
		errorColor.Fprintf(stderr, FmtSyntaxError, se.Description())
		return &exitError{code: ExitCodeSyntaxError}
	}
	errorColor.Fprintf(stderr, FmtError, err)
	return &exitError{code: ExitCodeError}
}

// parseSource reads and parses the source named in opts. With a template
// root the source is a template name resolved through a filesystem store.
func parseSource(opts *renderOptions, stdout, stderr io.Writer) (*pypage.Template, error) {
	engine, err := newEngine(opts, stdout, stderr)
	if err != nil {
		return nil, err
	}

	if opts.rootDir != "" {
		return parseStored(engine, opts, stderr)
	}

	source, err := readSource(opts.sourcePath, stderr)
	if err != nil {
		return nil, err
	}

	tmpl, err := engine.Parse(string(source))
	if err != nil {
		return nil, reportParseError(err, stderr)
	}
	return tmpl, nil
}

func printOK(stdout io.Writer, path string) {
	okColor.Fprintf(stdout, FmtValidOK, path)
}
