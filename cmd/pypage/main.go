package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// exitError carries the process exit code of a command that has already
// reported its failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// Flag and argument errors from cobra
	fmt.Fprintf(stderr, FmtError, err)
	return ExitCodeUsageError
}

// newRootCmd builds the command tree. The root command renders a template.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &renderOptions{}

	root := &cobra.Command{
		Use:           CLIUseRender,
		Short:         CLIShort,
		Long:          CLILong,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sourcePath = args[0]
			return runRender(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.DisableDefaultCmd = true

	root.Flags().StringVarP(&opts.targetPath, FlagTargetFile, FlagTargetFileShort, FlagDefaultTarget, UsageTargetFile)
	root.Flags().StringVarP(&opts.envPath, FlagEnvFile, FlagEnvFileShort, "", UsageEnvFile)
	root.Flags().DurationVar(&opts.loopLimit, FlagLoopLimit, defaultLoopLimit(), UsageLoopLimit)
	root.PersistentFlags().StringVarP(&opts.rootDir, FlagRootDir, FlagRootDirShort, "", UsageRootDir)
	root.PersistentFlags().BoolVarP(&opts.verbose, FlagVerbose, FlagVerboseShort, false, UsageVerbose)

	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newTreeCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}
