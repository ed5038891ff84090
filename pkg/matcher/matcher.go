// Package matcher manages GitHub Actions problem matchers for the build
// pipeline: which matcher definitions exist, which pipeline scope each one
// belongs to, and emitting the workflow commands that register and remove
// them around the right command.
package matcher

import (
	"fmt"
	"strings"

	"github.com/buildwright/buildwright/pkg/toolchain"
)

// Scope ties a matcher to the pipeline stage whose output it understands.
type Scope string

const (
	ScopeBuild   Scope = "build"
	ScopeAnalyze Scope = "analyze"
	ScopeRun     Scope = "run"
)

// Definition describes one problem matcher set: its registry name, the
// scope it activates in, and the owner tags of the individual matchers its
// JSON definition provides. Owners are what ::remove-matcher needs.
type Definition struct {
	Name     string
	Scope    Scope
	Provides []string
}

var definitions = []Definition{
	{Name: "compile", Scope: ScopeBuild, Provides: []string{"compile-gcc", "compile-msvc"}},
	{Name: "analyze-build", Scope: ScopeAnalyze, Provides: []string{"analyze-build"}},
	{Name: "asan", Scope: ScopeRun, Provides: []string{"asan"}},
	{Name: "msan", Scope: ScopeRun, Provides: []string{"msan"}},
	{Name: "ubsan", Scope: ScopeRun, Provides: []string{"ubsan"}},
	{Name: "valgrind", Scope: ScopeRun, Provides: []string{"valgrind-commons", "valgrind-memcheck"}},
}

// substitutions maps retired matcher names onto their replacements.
var substitutions = map[string]string{
	"cpp": "compile",
}

var byName = func() map[string]Definition {
	m := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		m[def.Name] = def
	}
	return m
}()

// Definitions returns the registry in its stable display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds a definition by registry name. Substitutions are not
// applied; Resolve does that.
func Lookup(name string) (Definition, bool) {
	def, ok := byName[name]
	return def, ok
}

// Resolve turns the --problem-matcher argument into the list of matcher
// names to activate.
//
// "auto" selects the compile matcher plus the matcher belonging to the
// active diagnostics mode. An empty spec selects nothing. Anything else is
// a comma-separated list of registry names, with retired spellings
// substituted; an unknown name is an error.
func Resolve(spec string, diagnostics toolchain.Diagnostics) ([]string, error) {
	if spec == "" {
		return nil, nil
	}

	if spec == "auto" {
		out := []string{"compile"}
		if name := string(diagnostics); name != "" {
			if _, ok := byName[name]; ok {
				out = append(out, name)
			}
		}
		return out, nil
	}

	var out []string
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if replacement, ok := substitutions[name]; ok {
			name = replacement
		}
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown problem matcher: %s (known matchers: %s)", name, strings.Join(names(), ", "))
		}
		out = append(out, name)
	}
	return out, nil
}

func names() []string {
	out := make([]string, len(definitions))
	for i, def := range definitions {
		out[i] = def.Name
	}
	return out
}
