package toolchain

import (
	"strings"

	"github.com/buildwright/buildwright/pkg/host"
)

// GeneratorKind classifies a cmake generator name into the buckets the
// pipeline treats differently. Generators the pipeline has no special
// handling for pass through as GeneratorOther.
type GeneratorKind int

const (
	GeneratorOther GeneratorKind = iota
	GeneratorNinja
	GeneratorMakefiles
	GeneratorVisualStudio
)

// Generator is a cmake generator name together with its classification.
// The name stays an open string: cmake accepts generators this code has
// never heard of, and those still work as GeneratorOther.
type Generator struct {
	Name string
	Kind GeneratorKind
}

// ClassifyGenerator classifies a cmake generator name.
func ClassifyGenerator(name string) Generator {
	g := Generator{Name: name}
	switch {
	case name == "Ninja":
		g.Kind = GeneratorNinja
	case name == "Unix Makefiles":
		g.Kind = GeneratorMakefiles
	case strings.HasPrefix(name, "Visual Studio"):
		g.Kind = GeneratorVisualStudio
	}
	return g
}

// IsVisualStudio reports whether the generator drives msbuild, which takes
// its own option tail (-nologo, -v:minimal) after the cmake "--" separator.
func (g Generator) IsVisualStudio() bool {
	return g.Kind == GeneratorVisualStudio
}

// IsMultiConfig reports whether the generator produces per-configuration
// output directories, requiring --config at build time and a descent into
// the configuration subdirectory when locating test binaries.
func (g Generator) IsMultiConfig() bool {
	return g.Kind == GeneratorVisualStudio || g.Name == "Xcode"
}

// DefaultGenerator picks the generator used when none was requested:
// vs20NN compilers get the matching Visual Studio generator, the BSDs and
// macOS get Unix Makefiles (Ninja is not preinstalled there), everything
// else gets Ninja.
func DefaultGenerator(c Compiler, family host.Family) string {
	if gen, ok := visualStudioGenerators[c.Name]; ok {
		return gen
	}
	switch family {
	case host.FamilyDarwin, host.FamilyFreeBSD, host.FamilyNetBSD, host.FamilyOpenBSD:
		return "Unix Makefiles"
	}
	return "Ninja"
}
