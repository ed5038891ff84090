package cli

import (
	"context"
	"strings"

	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/runner"
	"github.com/spf13/cobra"
)

// buildOptions holds the flag values shared by all pipeline commands.
type buildOptions struct {
	config         string
	compiler       string
	diagnostics    string
	generator      string
	architecture   string
	sourceDir      string
	buildType      string
	buildDefs      string
	problemMatcher string
	buildDir       string
}

// addBuildFlags binds the shared pipeline flags to cmd. matcherDefault is
// the --problem-matcher default; only the combined command turns matchers
// on by default.
func addBuildFlags(cmd *cobra.Command, opts *buildOptions, matcherDefault string) {
	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "Path to the build configuration file (YAML or JSON)")
	flags.StringVar(&opts.compiler, "compiler", "", "Compiler to use: gcc[-N], clang[-N] or vs2015..vs2022")
	flags.StringVar(&opts.diagnostics, "diagnostics", "", "Diagnostics mode: analyze-build, asan, msan, ubsan or valgrind")
	flags.StringVar(&opts.generator, "generator", "", "CMake generator (defaults to one that suits the host)")
	flags.StringVar(&opts.architecture, "architecture", "default", "Target architecture: x86, x64, arm or aarch64")
	flags.StringVar(&opts.sourceDir, "source-dir", "", "Source directory (defaults to the working directory)")
	flags.StringVar(&opts.buildType, "build-type", "", "Build type, for example Debug or Release")
	flags.StringVar(&opts.buildDefs, "build-defs", "", "Comma separated list of extra -D definitions")
	flags.StringVar(&opts.problemMatcher, "problem-matcher", matcherDefault, "Problem matchers to register: auto or a comma separated list")
	flags.StringVar(&opts.buildDir, "build-dir", "build", "Build directory")
}

// runnerOptions converts the raw flag values into runner options. The
// comma-separated build definitions become a list; empty segments are
// dropped so a trailing comma isn't an error.
func (o *buildOptions) runnerOptions() runner.Options {
	var defs []string
	for _, def := range strings.Split(o.buildDefs, ",") {
		if def = strings.TrimSpace(def); def != "" {
			defs = append(defs, def)
		}
	}
	return runner.Options{
		Config:         o.config,
		Compiler:       o.compiler,
		Diagnostics:    o.diagnostics,
		Generator:      o.generator,
		Architecture:   o.architecture,
		SourceDir:      o.sourceDir,
		BuildType:      o.buildType,
		BuildDefs:      defs,
		ProblemMatcher: o.problemMatcher,
		BuildDir:       o.buildDir,
	}
}

// newPipelineRunner detects the host, assembles the executor and runner
// and normalizes the flag values into a phase intent.
func newPipelineRunner(ctx context.Context, cmd *cobra.Command, opts *buildOptions) (*runner.Runner, *runner.Intent, error) {
	h, err := host.Detect(ctx, execute.Probe)
	if err != nil {
		return nil, nil, err
	}

	options := opts.runnerOptions()
	for _, def := range options.BuildDefs {
		if err := ValidateBuildDef(def); err != nil {
			return nil, nil, err
		}
	}

	in, err := runner.NormalizeIntent(h, options)
	if err != nil {
		return nil, nil, err
	}

	return runner.New(h, execute.NewExecutor(h), cmd.OutOrStdout()), in, nil
}
