package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/buildwright/buildwright/pkg/buildconfig"
	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/buildwright/buildwright/pkg/matcher"
	"github.com/buildwright/buildwright/pkg/toolchain"
)

var buildLog = logger.New("runner:build")

// Build compiles a previously configured build directory. Compiler,
// generator, build type and diagnostics mode all come from the record that
// configure persisted; the command line only contributes the build
// directory and the problem matcher selection.
func (r *Runner) Build(ctx context.Context, in *Intent) error {
	rec, err := buildconfig.Load(in.BuildDir)
	if err != nil {
		return err
	}

	compiler, err := toolchain.ParseCompiler(rec.Build.Compiler)
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

	buildLog.Printf("Building %s (generator=%s, diagnostics=%s)", in.BuildDir, generator.Name, diagnostics)

	if diagnostics == toolchain.DiagnosticsAnalyzeBuild {
		if err := r.analyze(ctx, in.BuildDir, compiler, matchers); err != nil {
			return err
		}
	}

	args := []string{"cmake", "--build", in.BuildDir, "--parallel", strconv.Itoa(r.host.NumCPU)}
	if generator.IsVisualStudio() {
		args = append(args, "--config", rec.Build.BuildType, "--", "-nologo", "-v:minimal")
	}

	return r.annotated("Build", matchers, matcher.ScopeBuild, func() error {
		_, err := r.exec.Run(ctx, execute.Command{Args: args})
		return err
	})
}

// analyze runs the static analyzer over the compilation database that
// configure exported alongside the regular build files.
func (r *Runner) analyze(ctx context.Context, buildDir string, compiler toolchain.Compiler, matchers []string) error {
	exe := compiler.AnalyzeBuildExecutable()
	if exe == "" {
		if compiler.IsZero() {
			return errors.New("analyze-build requires a clang compiler")
		}
		return fmt.Errorf("analyze-build can only be used with clang compiler, not %s", compiler.Name)
	}

	args := []string{
		exe,
		"-v",
		"--cdb", filepath.Join(buildDir, "compile_commands.json"),
		"--output", "analysis-output",
	}
	return r.annotated("Analysis", matchers, matcher.ScopeAnalyze, func() error {
		_, err := r.exec.Run(ctx, execute.Command{Args: args})
		return err
	})
}

// annotated wraps fn in a log group with the scope's problem matchers
// registered. Matchers are removed before the group closes no matter how
// fn ends.
func (r *Runner) annotated(name string, matchers []string, scope matcher.Scope, fn func() error) error {
	r.annotator.BeginGroup(name)
	defer r.annotator.EndGroup()

	if err := r.annotator.Begin(matchers, scope); err != nil {
		return err
	}
	defer r.annotator.End(matchers, scope)

	return fn()
}
