package runner

import (
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/matcher"
	"github.com/buildwright/buildwright/pkg/toolchain"
)

// Options carries the raw command-line arguments of the pipeline commands,
// before validation.
type Options struct {
	Config         string
	Compiler       string
	Diagnostics    string
	Generator      string
	Architecture   string // "default" selects the host architecture
	SourceDir      string
	BuildType      string
	BuildDefs      []string
	ProblemMatcher string
	BuildDir       string
}

// Intent is the validated, normalized form of Options. Prepare and
// configure consume it directly; build and test only take the build
// directory and matcher selection from it and read everything else from
// the persisted record.
type Intent struct {
	Compiler     toolchain.Compiler
	Architecture toolchain.Architecture
	Generator    toolchain.Generator
	Diagnostics  toolchain.Diagnostics

	// MatcherSpec stays unresolved here: build and test resolve it
	// against the diagnostics mode recorded in the build directory, not
	// the one given on their command line.
	MatcherSpec string

	ConfigPath string
	SourceDir  string
	BuildDir   string
	BuildType  string
	BuildDefs  []string
}

// NormalizeIntent validates the raw options against the toolchain tables
// and fills in the defaults that depend on the host: the detected
// architecture and the default generator. Unknown names of any kind fail
// here, before any phase has done work.
func NormalizeIntent(h *host.Host, opts Options) (*Intent, error) {
	compiler, err := toolchain.ParseCompiler(opts.Compiler)
	if err != nil {
		return nil, err
	}

	diagnostics, err := toolchain.ParseDiagnostics(opts.Diagnostics)
	if err != nil {
		return nil, err
	}

	var arch toolchain.Architecture
	if opts.Architecture == "" || opts.Architecture == "default" {
		arch = toolchain.DetectArchitecture(h.Arch)
	} else {
		arch, err = toolchain.ParseArchitecture(opts.Architecture)
		if err != nil {
			return nil, err
		}
	}

	generatorName := opts.Generator
	if generatorName == "" {
		generatorName = toolchain.DefaultGenerator(compiler, h.Family)
	}

	// Resolve eagerly to reject unknown matcher names up front; the
	// result is recomputed by the phases that use it.
	if _, err := matcher.Resolve(opts.ProblemMatcher, diagnostics); err != nil {
		return nil, err
	}

	return &Intent{
		Compiler:     compiler,
		Architecture: arch,
		Generator:    toolchain.ClassifyGenerator(generatorName),
		Diagnostics:  diagnostics,
		MatcherSpec:  opts.ProblemMatcher,
		ConfigPath:   opts.Config,
		SourceDir:    opts.SourceDir,
		BuildDir:     opts.BuildDir,
		BuildType:    opts.BuildType,
		BuildDefs:    opts.BuildDefs,
	}, nil
}
