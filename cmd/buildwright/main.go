package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/buildwright/buildwright/pkg/buildconfig"
	"github.com/buildwright/buildwright/pkg/cli"
	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/runner"
	"github.com/spf13/cobra"
)

// version is the build version, set via -ldflags at release time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "buildwright",
	Short: "Drive CMake build pipelines on CI runners",
	Long: `buildwright drives a CMake project through the prepare, configure, build
and test phases of a CI pipeline.

Prepare installs the requested toolchain, configure runs cmake and records
how the build directory was configured, and build and test replay that
record so they can never diverge from it. On GitHub Actions the phases
emit log groups and problem matchers so compiler and sanitizer output
turns into annotations.

Run 'buildwright all' for the whole pipeline, or the individual phase
commands when the workflow splits them into separate steps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the buildwright version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(
		cli.NewPrepareCommand(),
		cli.NewConfigureCommand(),
		cli.NewBuildCommand(),
		cli.NewTestCommand(),
		cli.NewAllCommand(),
		cli.NewDoctorCommand(),
		cli.NewMatchersCommand(),
		cli.NewInitCommand(),
		versionCmd,
	)
}

func main() {
	if cli.IsRunningInGitHubActions() {
		console.ForceColors()
	}

	if err := rootCmd.Execute(); err != nil {
		// A test failure already wrote its summary to the transcript;
		// anything else still needs to be reported.
		var failure *runner.TestFailureError
		switch {
		case errors.As(err, &failure):
		case errors.Is(err, buildconfig.ErrNotConfigured):
			fmt.Fprintln(os.Stderr, console.FormatErrorWithSuggestions(err.Error(), []string{
				"Run 'buildwright configure' first",
				"Pass --build-dir when the project configures into a different directory",
			}))
		default:
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		os.Exit(1)
	}
}
