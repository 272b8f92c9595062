package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *renderOptions) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameValidate + " <source_file>",
		Short: "Check a template's tag structure without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sourcePath = args[0]
			if _, err := parseSource(opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), opts.sourcePath)
			return nil
		},
	}
}
