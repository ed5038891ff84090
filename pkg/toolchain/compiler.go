package toolchain

import (
	"fmt"
	"strings"
)

// CompilerFamily groups compiler spellings by the toolchain they belong to.
type CompilerFamily string

const (
	CompilerGCC   CompilerFamily = "gcc"
	CompilerClang CompilerFamily = "clang"
	CompilerMSVC  CompilerFamily = "msvc"
)

// visualStudioGenerators maps the vs20NN shorthand onto the full cmake
// generator name.
var visualStudioGenerators = map[string]string{
	"vs2015": "Visual Studio 14 2015",
	"vs2017": "Visual Studio 15 2017",
	"vs2019": "Visual Studio 16 2019",
	"vs2022": "Visual Studio 17 2022",
}

// Compiler is a parsed compiler selection. The zero value means "not
// specified": cmake picks its own default toolchain and no compiler
// packages are installed during prepare.
type Compiler struct {
	Name    string         // original spelling: "gcc-12", "clang", "vs2022"
	Family  CompilerFamily // empty for the zero value
	Version string         // "12" for "gcc-12"; empty when unversioned
}

// ParseCompiler parses a compiler spelling (gcc, gcc-N, clang, clang-N,
// vs2015..vs2022). An empty string parses to the zero Compiler. Anything
// else is an error.
func ParseCompiler(name string) (Compiler, error) {
	switch {
	case name == "":
		return Compiler{}, nil
	case name == "gcc" || strings.HasPrefix(name, "gcc-"):
		return Compiler{Name: name, Family: CompilerGCC, Version: versionSuffix(name, "gcc-")}, nil
	case name == "clang" || strings.HasPrefix(name, "clang-"):
		return Compiler{Name: name, Family: CompilerClang, Version: versionSuffix(name, "clang-")}, nil
	}
	if _, ok := visualStudioGenerators[name]; ok {
		return Compiler{Name: name, Family: CompilerMSVC, Version: strings.TrimPrefix(name, "vs")}, nil
	}
	return Compiler{}, fmt.Errorf("unsupported compiler: %s (expected gcc[-N], clang[-N] or vs2015..vs2022)", name)
}

// versionSuffix returns the version after the family prefix, or "" for an
// unversioned spelling ("gcc", "clang").
func versionSuffix(name, prefix string) string {
	if strings.HasPrefix(name, prefix) {
		return name[len(prefix):]
	}
	return ""
}

// IsZero reports whether no compiler was specified.
func (c Compiler) IsZero() bool {
	return c.Name == ""
}

// CExecutable returns the C compiler executable name ("gcc-12", "clang").
// MSVC toolchains have no standalone driver to invoke; the Visual Studio
// generator locates the toolset itself, so this returns "".
func (c Compiler) CExecutable() string {
	if c.Family == CompilerMSVC {
		return ""
	}
	return c.Name
}

// CPPExecutable returns the C++ compiler executable name ("g++-12",
// "clang++"). Empty for MSVC, same as CExecutable.
func (c Compiler) CPPExecutable() string {
	switch c.Family {
	case CompilerGCC:
		return strings.Replace(c.Name, "gcc", "g++", 1)
	case CompilerClang:
		return strings.Replace(c.Name, "clang", "clang++", 1)
	}
	return ""
}

// AnalyzeBuildExecutable returns the clang static analyzer driver matching
// the compiler version ("analyze-build", "analyze-build-17"). Only
// meaningful for the clang family; static analysis with any other family
// is rejected during prepare.
func (c Compiler) AnalyzeBuildExecutable() string {
	if c.Family != CompilerClang {
		return ""
	}
	return strings.Replace(c.Name, "clang", "analyze-build", 1)
}

// MatchesVersion reports whether the compiler's version suffix is one of
// the given versions. Used to decide whether a clang release is served by
// the LLVM apt repository.
func (c Compiler) MatchesVersion(versions []string) bool {
	for _, v := range versions {
		if c.Version == v {
			return true
		}
	}
	return false
}
