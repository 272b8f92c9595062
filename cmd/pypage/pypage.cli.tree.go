package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTreeCmd(opts *renderOptions) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameTree + " <source_file>",
		Short: "Print the parsed template tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sourcePath = args[0]
			tmpl, err := parseSource(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tmpl.Tree())
			return nil
		},
	}
}
