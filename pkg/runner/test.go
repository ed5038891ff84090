package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildwright/buildwright/pkg/buildconfig"
	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/buildwright/buildwright/pkg/matcher"
	"github.com/buildwright/buildwright/pkg/toolchain"
)

var testLog = logger.New("runner:test")

// TestFailureError reports which tests of a suite failed. The pipeline
// command translates it into a non-zero exit without printing it again;
// the summary line has already been written to the transcript.
type TestFailureError struct {
	Failed []string
	Total  int
}

func (e *TestFailureError) Error() string {
	n := len(e.Failed)
	return fmt.Sprintf("%d %s out of %d failed: %s", n, pluralize("test", n), e.Total, strings.Join(e.Failed, ", "))
}

// Test runs every test listed in the configuration record and aggregates
// failures instead of stopping at the first one. A test whose binary is
// missing counts as failed unless it is marked optional; features disabled
// at configure time routinely compile tests out.
func (r *Runner) Test(ctx context.Context, in *Intent) error {
	rec, err := buildconfig.Load(in.BuildDir)
	if err != nil {
		return err
	}

	diagnostics, err := toolchain.ParseDiagnostics(rec.Build.Diagnostics)
	if err != nil {
		return err
	}
	generator := toolchain.ClassifyGenerator(rec.Build.Generator)

	matchers, err := matcher.Resolve(in.MatcherSpec, diagnostics)
	if err != nil {
		return err
	}

	tests, err := rec.Doc.Tests()
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		testLog.Print("No tests declared, nothing to run")
		return nil
	}

	// Multi-configuration generators nest the binaries one level deeper.
	runDir := in.BuildDir
	if generator.IsMultiConfig() && rec.Build.BuildType != "" {
		nested := filepath.Join(in.BuildDir, rec.Build.BuildType)
		if info, err := os.Stat(nested); err == nil && info.IsDir() {
			runDir = nested
		}
	}

	var failures []string
	runOne := func(test buildconfig.TestSpec, argv []string) error {
		r.annotator.BeginGroup(strings.Join(test.Cmd, " "))
		defer r.annotator.EndGroup()

		res, err := r.exec.Run(ctx, execute.Command{Args: argv, Dir: runDir, NoCheck: true, Quiet: true})
		if err != nil {
			failures = append(failures, test.Cmd[0])
			return err
		}
		if res.ExitCode != 0 {
			fmt.Fprintf(r.out, "Test returned %d\n", res.ExitCode)
			failures = append(failures, test.Cmd[0])
		}
		return nil
	}

	runAll := func() error {
		if err := r.annotator.Begin(matchers, matcher.ScopeRun); err != nil {
			return err
		}
		defer r.annotator.End(matchers, matcher.ScopeRun)

		for i, test := range tests {
			if len(test.Cmd) == 0 {
				return fmt.Errorf("test %d has no command", i)
			}
			app := test.Cmd[0]

			executable, err := filepath.Abs(filepath.Join(runDir, app))
			if err != nil {
				return err
			}
			if r.host.Family == host.FamilyWindows {
				executable += ".exe"
			}

			info, statErr := os.Stat(executable)
			if statErr != nil || info.IsDir() {
				if test.Optional {
					testLog.Printf("Skipping optional test %s, binary not built", app)
					continue
				}
				fmt.Fprintf(r.out, "Test %s not found and it's not optional.\n", app)
				failures = append(failures, app)
				continue
			}

			argv := append([]string{executable}, test.Cmd[1:]...)
			if diagnostics == toolchain.DiagnosticsValgrind {
				argv = append(append([]string{"valgrind"}, rec.Doc.ValgrindArguments()...), argv...)
			}

			if err := runOne(test, argv); err != nil {
				return err
			}
		}
		return nil
	}

	if err := runAll(); err != nil {
		return err
	}

	if len(failures) > 0 {
		failed := &TestFailureError{Failed: failures, Total: len(tests)}
		fmt.Fprintln(r.out, failed.Error())
		return failed
	}
	return nil
}
