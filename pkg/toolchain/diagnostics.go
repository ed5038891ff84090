package toolchain

import "fmt"

// Diagnostics selects an optional diagnostics layer for the build: a
// static analyzer pre-pass, a sanitizer baked in at configure time, or a
// valgrind wrapper at test time. The zero value means no diagnostics.
type Diagnostics string

const (
	DiagnosticsNone         Diagnostics = ""
	DiagnosticsAnalyzeBuild Diagnostics = "analyze-build"
	DiagnosticsASAN         Diagnostics = "asan"
	DiagnosticsMSAN         Diagnostics = "msan"
	DiagnosticsUBSAN        Diagnostics = "ubsan"
	DiagnosticsValgrind     Diagnostics = "valgrind"
)

// ParseDiagnostics validates a diagnostics mode. The retired "scan-build"
// spelling is accepted as an alias for analyze-build.
func ParseDiagnostics(s string) (Diagnostics, error) {
	switch Diagnostics(s) {
	case DiagnosticsNone, DiagnosticsAnalyzeBuild, DiagnosticsASAN, DiagnosticsMSAN, DiagnosticsUBSAN, DiagnosticsValgrind:
		return Diagnostics(s), nil
	}
	if s == "scan-build" {
		return DiagnosticsAnalyzeBuild, nil
	}
	return "", fmt.Errorf("unsupported diagnostics mode: %s (expected analyze-build, asan, msan, ubsan or valgrind)", s)
}
