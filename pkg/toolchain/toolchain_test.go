//go:build !integration

package toolchain

import (
	"testing"

	"github.com/buildwright/buildwright/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		input string
		want  Architecture
	}{
		{input: "x86", want: ArchX86},
		{input: "i386", want: ArchX86},
		{input: "x64", want: ArchX64},
		{input: "amd64", want: ArchX64},
		{input: "x86_64", want: ArchX64},
		{input: "x86-64", want: ArchX64},
		{input: "X86_64", want: ArchX64},
		{input: "arm", want: ArchARM},
		{input: "arm/v7", want: ArchARM},
		{input: "arm64", want: ArchAArch64},
		{input: "aarch64", want: ArchAArch64},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseArchitecture(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseArchitecture("mips64")
	assert.Error(t, err, "unknown architectures should be rejected")
}

func TestDetectArchitecture(t *testing.T) {
	assert.Equal(t, ArchX64, DetectArchitecture("amd64"))
	assert.Equal(t, ArchX86, DetectArchitecture("386"))
	assert.Equal(t, ArchAArch64, DetectArchitecture("arm64"))
	assert.Equal(t, ArchARM, DetectArchitecture("arm"))
	assert.Equal(t, ArchX64, DetectArchitecture("riscv64"), "unknown GOARCH falls back to x64")
}

func TestVSPlatform(t *testing.T) {
	assert.Equal(t, "Win32", ArchX86.VSPlatform())
	assert.Equal(t, "x64", ArchX64.VSPlatform())
	assert.Equal(t, "ARM", ArchARM.VSPlatform())
	assert.Equal(t, "ARM64", ArchAArch64.VSPlatform())
}

func TestParseCompiler(t *testing.T) {
	tests := []struct {
		name        string
		wantFamily  CompilerFamily
		wantVersion string
	}{
		{name: "gcc", wantFamily: CompilerGCC, wantVersion: ""},
		{name: "gcc-12", wantFamily: CompilerGCC, wantVersion: "12"},
		{name: "clang", wantFamily: CompilerClang, wantVersion: ""},
		{name: "clang-17", wantFamily: CompilerClang, wantVersion: "17"},
		{name: "vs2015", wantFamily: CompilerMSVC, wantVersion: "2015"},
		{name: "vs2022", wantFamily: CompilerMSVC, wantVersion: "2022"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCompiler(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.wantFamily, c.Family)
			assert.Equal(t, tt.wantVersion, c.Version)
		})
	}
}

func TestParseCompilerRejectsUnknown(t *testing.T) {
	for _, name := range []string{"icc", "msvc", "vs2013", "tcc"} {
		_, err := ParseCompiler(name)
		assert.Error(t, err, "compiler %q should be rejected", name)
	}
}

func TestParseCompilerEmpty(t *testing.T) {
	c, err := ParseCompiler("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestCompilerExecutables(t *testing.T) {
	gcc, err := ParseCompiler("gcc-12")
	require.NoError(t, err)
	assert.Equal(t, "gcc-12", gcc.CExecutable())
	assert.Equal(t, "g++-12", gcc.CPPExecutable())

	clang, err := ParseCompiler("clang-17")
	require.NoError(t, err)
	assert.Equal(t, "clang-17", clang.CExecutable())
	assert.Equal(t, "clang++-17", clang.CPPExecutable())
	assert.Equal(t, "analyze-build-17", clang.AnalyzeBuildExecutable())

	plainClang, err := ParseCompiler("clang")
	require.NoError(t, err)
	assert.Equal(t, "analyze-build", plainClang.AnalyzeBuildExecutable())

	vs, err := ParseCompiler("vs2019")
	require.NoError(t, err)
	assert.Empty(t, vs.CExecutable())
	assert.Empty(t, vs.CPPExecutable())
	assert.Empty(t, vs.AnalyzeBuildExecutable())
}

func TestCompilerMatchesVersion(t *testing.T) {
	clang16, err := ParseCompiler("clang-16")
	require.NoError(t, err)
	assert.True(t, clang16.MatchesVersion([]string{"16", "17"}))

	clang15, err := ParseCompiler("clang-15")
	require.NoError(t, err)
	assert.False(t, clang15.MatchesVersion([]string{"16", "17"}))

	plain, err := ParseCompiler("clang")
	require.NoError(t, err)
	assert.False(t, plain.MatchesVersion([]string{"16", "17"}))
}

func TestClassifyGenerator(t *testing.T) {
	tests := []struct {
		name     string
		wantKind GeneratorKind
	}{
		{name: "Ninja", wantKind: GeneratorNinja},
		{name: "Unix Makefiles", wantKind: GeneratorMakefiles},
		{name: "Visual Studio 16 2019", wantKind: GeneratorVisualStudio},
		{name: "Visual Studio 17 2022", wantKind: GeneratorVisualStudio},
		{name: "Xcode", wantKind: GeneratorOther},
		{name: "NMake Makefiles", wantKind: GeneratorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ClassifyGenerator(tt.name)
			assert.Equal(t, tt.wantKind, g.Kind)
			assert.Equal(t, tt.name, g.Name)
		})
	}
}

func TestGeneratorMultiConfig(t *testing.T) {
	assert.True(t, ClassifyGenerator("Visual Studio 16 2019").IsMultiConfig())
	assert.True(t, ClassifyGenerator("Xcode").IsMultiConfig())
	assert.False(t, ClassifyGenerator("Ninja").IsMultiConfig())
	assert.False(t, ClassifyGenerator("Unix Makefiles").IsMultiConfig())

	assert.True(t, ClassifyGenerator("Visual Studio 16 2019").IsVisualStudio())
	assert.False(t, ClassifyGenerator("Xcode").IsVisualStudio())
}

func TestDefaultGenerator(t *testing.T) {
	vs2019, err := ParseCompiler("vs2019")
	require.NoError(t, err)
	assert.Equal(t, "Visual Studio 16 2019", DefaultGenerator(vs2019, host.FamilyWindows))

	vs2022, err := ParseCompiler("vs2022")
	require.NoError(t, err)
	assert.Equal(t, "Visual Studio 17 2022", DefaultGenerator(vs2022, host.FamilyWindows))

	gcc, err := ParseCompiler("gcc")
	require.NoError(t, err)
	assert.Equal(t, "Ninja", DefaultGenerator(gcc, host.FamilyLinux))
	assert.Equal(t, "Unix Makefiles", DefaultGenerator(gcc, host.FamilyDarwin))

	clang, err := ParseCompiler("clang")
	require.NoError(t, err)
	assert.Equal(t, "Unix Makefiles", DefaultGenerator(clang, host.FamilyFreeBSD))
	assert.Equal(t, "Unix Makefiles", DefaultGenerator(clang, host.FamilyNetBSD))
	assert.Equal(t, "Unix Makefiles", DefaultGenerator(clang, host.FamilyOpenBSD))
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		input string
		want  Diagnostics
	}{
		{input: "", want: DiagnosticsNone},
		{input: "analyze-build", want: DiagnosticsAnalyzeBuild},
		{input: "scan-build", want: DiagnosticsAnalyzeBuild},
		{input: "asan", want: DiagnosticsASAN},
		{input: "msan", want: DiagnosticsMSAN},
		{input: "ubsan", want: DiagnosticsUBSAN},
		{input: "valgrind", want: DiagnosticsValgrind},
	}

	for _, tt := range tests {
		name := tt.input
		if name == "" {
			name = "none"
		}
		t.Run(name, func(t *testing.T) {
			got, err := ParseDiagnostics(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDiagnostics("tsan")
	assert.Error(t, err)
}
