package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "unknown"
)

// versionInfo holds version information
type versionInfo struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit"`
	GoVersion string `yaml:"go_version"`
	OS        string `yaml:"os"`
	Arch      string `yaml:"arch"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:   version,
		Commit:    commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, UsageFormat)
	return cmd
}

func runVersion(format string, stdout, stderr io.Writer) error {
	info := currentVersion()

	switch format {
	case OutputFormatText:
		fmt.Fprintf(stdout, FmtVersionLine, CLIName, info.Version)
		fmt.Fprintf(stdout, FmtCommitLine, info.Commit)
		fmt.Fprintf(stdout, FmtGoVersionLine, info.GoVersion)
		fmt.Fprintf(stdout, FmtOSArchLine, info.OS, info.Arch)
		return nil
	case OutputFormatYAML:
		out, err := yaml.Marshal(info)
		if err != nil {
			errorColor.Fprintf(stderr, FmtError, err)
			return &exitError{code: ExitCodeError}
		}
		_, err = stdout.Write(out)
		return err
	default:
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, format)
		return &exitError{code: ExitCodeUsageError}
	}
}
