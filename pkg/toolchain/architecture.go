// Package toolchain defines the closed vocabulary the pipeline accepts for
// compilers, generators, target architectures and diagnostics modes, plus
// the total mappings between them. Values outside the vocabulary are
// configuration errors, reported when arguments are parsed rather than
// halfway through a build.
package toolchain

import (
	"fmt"
	"strings"
)

// Architecture is a normalized target architecture name.
type Architecture string

const (
	ArchX86     Architecture = "x86"
	ArchX64     Architecture = "x64"
	ArchARM     Architecture = "arm"
	ArchAArch64 Architecture = "aarch64"
)

// architectureAliases maps the spellings accepted on input onto the
// canonical names. Canonical names map to themselves.
var architectureAliases = map[string]Architecture{
	"i386":    ArchX86,
	"x86":     ArchX86,
	"amd64":   ArchX64,
	"x86_64":  ArchX64,
	"x86-64":  ArchX64,
	"x64":     ArchX64,
	"arm/v6":  ArchARM,
	"arm/v7":  ArchARM,
	"arm/v8":  ArchARM,
	"arm":     ArchARM,
	"arm64":   ArchAArch64,
	"aarch64": ArchAArch64,
}

// ParseArchitecture normalizes an architecture spelling ("amd64", "x86_64",
// "arm/v7", ...) onto the closed enum. Unrecognized input is an error.
func ParseArchitecture(s string) (Architecture, error) {
	if arch, ok := architectureAliases[strings.ToLower(s)]; ok {
		return arch, nil
	}
	return "", fmt.Errorf("unsupported architecture: %s", s)
}

// DetectArchitecture maps a GOARCH value onto the enum. Architectures the
// build tables don't know fall back to x64, which is what every hosted CI
// runner provides.
func DetectArchitecture(goarch string) Architecture {
	switch goarch {
	case "386":
		return ArchX86
	case "amd64":
		return ArchX64
	case "arm":
		return ArchARM
	case "arm64":
		return ArchAArch64
	}
	return ArchX64
}

// vsPlatformMap is total over the Architecture enum.
var vsPlatformMap = map[Architecture]string{
	ArchX86:     "Win32",
	ArchX64:     "x64",
	ArchARM:     "ARM",
	ArchAArch64: "ARM64",
}

// VSPlatform returns the value passed to cmake's -A option for Visual
// Studio generators.
func (a Architecture) VSPlatform() string {
	return vsPlatformMap[a]
}
