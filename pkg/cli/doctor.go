package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/buildwright/buildwright/pkg/runner"
	"github.com/buildwright/buildwright/pkg/toolchain"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

var doctorLog = logger.New("cli:doctor")

type doctorCheck struct {
	tool string
	args []string
}

// doctorChecks builds the probe list for the selected toolchain. cmake and
// valgrind are always interesting; the rest depend on what the intent asks
// for. MSVC has no probeable driver, so its row is omitted.
func doctorChecks(in *runner.Intent) []doctorCheck {
	checks := []doctorCheck{{tool: "cmake", args: []string{"cmake", "--version"}}}

	if in.Generator.Kind == toolchain.GeneratorNinja {
		checks = append(checks, doctorCheck{tool: "ninja", args: []string{"ninja", "--version"}})
	}

	if cc := in.Compiler.CExecutable(); cc != "" {
		checks = append(checks,
			doctorCheck{tool: cc, args: []string{cc, "--version"}},
			doctorCheck{tool: in.Compiler.CPPExecutable(), args: []string{in.Compiler.CPPExecutable(), "--version"}},
		)
	}

	checks = append(checks, doctorCheck{tool: "valgrind", args: []string{"valgrind", "--version"}})

	analyze := in.Compiler.AnalyzeBuildExecutable()
	if analyze == "" && in.Compiler.IsZero() {
		analyze = "analyze-build"
	}
	if analyze != "" {
		checks = append(checks, doctorCheck{tool: "analyze-build", args: []string{analyze, "--help"}})
	}

	return checks
}

// runDoctor probes every tool concurrently and renders the result table.
func runDoctor(ctx context.Context, in *runner.Intent, probe host.ProbeFunc, out io.Writer) {
	checks := doctorChecks(in)
	results := make([]bool, len(checks))

	var wg conc.WaitGroup
	for i, check := range checks {
		wg.Go(func() {
			doctorLog.Printf("Probing %s", strings.Join(check.args, " "))
			results[i] = probe(ctx, check.args...)
		})
	}
	wg.Wait()

	rows := make([][]string, len(checks))
	for i, check := range checks {
		status := "✗"
		if results[i] {
			status = "✓"
		}
		rows[i] = []string{check.tool, strings.Join(check.args, " "), status}
	}

	fmt.Fprintln(out, console.RenderTable(console.TableConfig{
		Title:   "Toolchain health",
		Headers: []string{"Tool", "Probe", "Status"},
		Rows:    rows,
	}))
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check which build tools are available on this host",
		Long: `Probe the host for the tools the pipeline would use with the given flags
and render the result as a table. Doctor never fails: a missing tool is a
row in the table, not an error, since prepare exists to install it.

Examples:
  buildwright doctor
  buildwright doctor --compiler clang-17 --diagnostics valgrind`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := host.Detect(cmd.Context(), execute.Probe)
			if err != nil {
				return err
			}
			in, err := runner.NormalizeIntent(h, opts.runnerOptions())
			if err != nil {
				return err
			}
			runDoctor(cmd.Context(), in, execute.Probe, cmd.OutOrStdout())
			return nil
		},
	}
	addBuildFlags(cmd, opts, "")
	return cmd
}
