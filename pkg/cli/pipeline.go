package cli

import (
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/spf13/cobra"
)

var pipelineLog = logger.New("cli:pipeline")

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Install the tools the requested build needs",
		Long: `Install whatever the requested build needs that the host doesn't already
have: the compiler, cmake, the generator's build tool and the diagnostics
tooling. Hosts that ship with their toolchain preinstalled (Windows, macOS)
are left untouched.

Every check is a capability probe, so rerunning prepare on a provisioned
host is a no-op.

Examples:
  buildwright prepare --compiler clang-17
  buildwright prepare --compiler gcc-13 --architecture x86
  buildwright prepare --compiler clang-16 --diagnostics analyze-build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineLog.Print("Running the prepare phase")
			r, in, err := newPipelineRunner(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			return r.Prepare(cmd.Context(), in)
		},
	}
	addBuildFlags(cmd, opts, "")
	return cmd
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the project with cmake and persist the configuration record",
		Long: `Run cmake against the source tree and persist the resulting configuration
record into the build directory. Build and test read that record instead of
their own flags, so they can never diverge from what was configured.

The optional --config file contributes per-diagnostic cmake definitions,
the test list and valgrind arguments; everything it contains is carried
into the record unchanged.

Examples:
  buildwright configure --compiler clang-17 --build-type Release
  buildwright configure --config build-config.yml --diagnostics asan
  buildwright configure --generator "Unix Makefiles" --build-defs FOO=1,BAR=2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineLog.Print("Running the configure phase")
			r, in, err := newPipelineRunner(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			return r.Configure(cmd.Context(), in)
		},
	}
	addBuildFlags(cmd, opts, "")
	return cmd
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a previously configured build directory",
		Long: `Build a previously configured build directory. The compiler, generator,
build type and diagnostics mode all come from the record that configure
persisted; failing to find that record is an error, not a silent
reconfiguration.

When the record selects analyze-build, the static analyzer runs over the
exported compilation database before the build itself.

Examples:
  buildwright build
  buildwright build --build-dir out --problem-matcher auto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineLog.Print("Running the build phase")
			r, in, err := newPipelineRunner(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			return r.Build(cmd.Context(), in)
		},
	}
	addBuildFlags(cmd, opts, "")
	return cmd
}

// NewTestCommand creates the test command.
func NewTestCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the tests declared in the build configuration",
		Long: `Run every test declared in the configuration record and aggregate the
failures instead of stopping at the first one. Tests whose binaries were
not built are skipped when marked optional and counted as failures
otherwise.

When the record selects valgrind diagnostics, every test runs under
valgrind with the configured (or default) argument list.

Examples:
  buildwright test
  buildwright test --build-dir out --problem-matcher auto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineLog.Print("Running the test phase")
			r, in, err := newPipelineRunner(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			return r.Test(cmd.Context(), in)
		},
	}
	addBuildFlags(cmd, opts, "")
	return cmd
}

// NewAllCommand creates the all command, which runs the whole pipeline.
func NewAllCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run the whole pipeline: prepare, configure, build and test",
		Long: `Run the whole pipeline in order: prepare, configure, build and test,
stopping at the first phase that fails. Each phase is folded into its own
log group, and problem matchers default to auto, which selects the
matchers appropriate for the chosen diagnostics mode.

Examples:
  buildwright all --compiler clang-17 --build-type Release
  buildwright all --config build-config.yml --diagnostics valgrind`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineLog.Print("Running the full pipeline")
			r, in, err := newPipelineRunner(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			r.Annotator().EnableGroups()
			return r.All(cmd.Context(), in)
		},
	}
	addBuildFlags(cmd, opts, "auto")
	return cmd
}
