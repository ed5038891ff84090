package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildwright/buildwright/pkg/buildconfig"
	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/buildwright/buildwright/pkg/toolchain"
)

var configureLog = logger.New("runner:configure")

// Configure creates the build directory, runs cmake against the source
// tree and, once cmake has succeeded, persists the configuration record
// into the build directory. A failed cmake leaves no record behind, so a
// later build can't mistake the directory for a configured one.
func (r *Runner) Configure(ctx context.Context, in *Intent) error {
	r.annotator.BeginGroup("Configure")
	defer r.annotator.EndGroup()

	sourceDir := in.SourceDir
	if sourceDir == "" || sourceDir == "." {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve the source directory: %w", err)
		}
		sourceDir = wd
	} else {
		abs, err := filepath.Abs(sourceDir)
		if err != nil {
			return fmt.Errorf("failed to resolve the source directory: %w", err)
		}
		sourceDir = abs
	}

	doc := buildconfig.Doc{}
	if in.ConfigPath != "" {
		loaded, err := buildconfig.LoadInput(in.ConfigPath)
		if err != nil {
			return err
		}
		doc = loaded
	}

	args := []string{"cmake", sourceDir, "-G", in.Generator.Name}
	env := map[string]string{}

	if in.Generator.IsVisualStudio() {
		args = append(args, "-A", in.Architecture.VSPlatform())
	} else {
		if !in.Compiler.IsZero() {
			env["CC"] = in.Compiler.CExecutable()
			env["CXX"] = in.Compiler.CPPExecutable()
		}
		if in.Architecture == toolchain.ArchX86 {
			env["CFLAGS"] = "-m32"
			env["CXXFLAGS"] = "-m32"
			env["LDFLAGS"] = "-m32"
		}
		if in.BuildType != "" {
			args = append(args, "-DCMAKE_BUILD_TYPE="+in.BuildType)
		}
	}

	for _, def := range in.BuildDefs {
		args = append(args, "-D"+def)
	}

	if in.Diagnostics != toolchain.DiagnosticsNone {
		for _, def := range doc.DiagnosticDefinitions(string(in.Diagnostics)) {
			args = append(args, "-D"+def)
		}
	}

	// Always last: build and test need the compilation database.
	args = append(args, "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON")

	if err := os.MkdirAll(in.BuildDir, 0755); err != nil {
		return fmt.Errorf("failed to create the build directory: %w", err)
	}

	configureLog.Printf("Configuring %s into %s", sourceDir, in.BuildDir)
	if _, err := r.exec.Run(ctx, execute.Command{Args: args, Dir: in.BuildDir, Env: env}); err != nil {
		return err
	}

	buildDefs := in.BuildDefs
	if buildDefs == nil {
		buildDefs = []string{}
	}

	rec := &buildconfig.Record{
		Build: buildconfig.Build{
			BuildTool:    "cmake",
			BuildType:    in.BuildType,
			BuildDefs:    buildDefs,
			Config:       in.ConfigPath,
			Compiler:     in.Compiler.Name,
			Generator:    in.Generator.Name,
			Diagnostics:  string(in.Diagnostics),
			Architecture: string(in.Architecture),
		},
		Doc: doc,
	}
	return buildconfig.Save(in.BuildDir, rec)
}
