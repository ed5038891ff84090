// Package host detects the capabilities of the machine the pipeline runs on.
//
// Detection happens once, at startup: the resulting Host value is immutable
// and passed explicitly to the executor and the phase runners. Nothing in
// this package caches state in globals.
package host

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/buildwright/buildwright/pkg/logger"
)

var hostLog = logger.New("host:detect")

// Family identifies the operating system family the pipeline knows how to
// prepare. Values mirror runtime.GOOS.
type Family string

const (
	FamilyLinux   Family = "linux"
	FamilyDarwin  Family = "darwin"
	FamilyWindows Family = "windows"
	FamilyFreeBSD Family = "freebsd"
	FamilyNetBSD  Family = "netbsd"
	FamilyOpenBSD Family = "openbsd"
)

// ParseFamily maps a GOOS string onto the closed Family enum. Operating
// systems the pipeline has no preparation logic for are rejected rather
// than silently treated as Linux.
func ParseFamily(goos string) (Family, error) {
	switch Family(goos) {
	case FamilyLinux, FamilyDarwin, FamilyWindows, FamilyFreeBSD, FamilyNetBSD, FamilyOpenBSD:
		return Family(goos), nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

// Release carries the fields of /etc/os-release the pipeline cares about.
// All fields are zero on non-Linux hosts.
type Release struct {
	ID       string // e.g. "ubuntu", "debian"
	Name     string // e.g. "Ubuntu"
	Codename string // e.g. "jammy"; empty on rolling releases
	Unstable bool   // PRETTY_NAME ends in "/sid" or "/testing"
}

// ProbeFunc reports whether the given argument vector can be invoked
// successfully. See execute.Probe.
type ProbeFunc func(ctx context.Context, args ...string) bool

// Host is the immutable capability context of the current machine.
type Host struct {
	Family  Family
	Arch    string // runtime.GOARCH value; normalized by pkg/toolchain
	NumCPU  int
	IsRoot  bool
	HasSudo bool
	Release Release
}

// Detect builds the host context for the current machine. The probe is used
// to check for sudo; package installation paths decide between running
// directly (root) and prefixing sudo based on the result.
func Detect(ctx context.Context, probe ProbeFunc) (*Host, error) {
	family, err := ParseFamily(runtime.GOOS)
	if err != nil {
		return nil, err
	}

	h := &Host{
		Family: family,
		Arch:   runtime.GOARCH,
		NumCPU: runtime.NumCPU(),
		IsRoot: os.Geteuid() == 0,
	}
	h.HasSudo = probe(ctx, "sudo", "--version")

	if family == FamilyLinux {
		h.Release = releaseFromFile("/etc/os-release")
	}

	hostLog.Printf("Detected host: family=%s arch=%s cpus=%d root=%t sudo=%t release=%s/%s",
		h.Family, h.Arch, h.NumCPU, h.IsRoot, h.HasSudo, h.Release.ID, h.Release.Codename)
	return h, nil
}

func releaseFromFile(path string) Release {
	data, err := os.ReadFile(path)
	if err != nil {
		// Not fatal: hosts without os-release just get empty fields and
		// repository bootstrap reports the missing codename later.
		return Release{}
	}
	return parseRelease(string(data))
}

var keyValueRe = regexp.MustCompile(`^(\w+)\s*=\s*(.*)$`)

// parseKeyValue parses simple KEY=VALUE lines, stripping surrounding double
// quotes from values. Lines that don't match are skipped.
func parseKeyValue(content string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		m := keyValueRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		value := m[2]
		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}
		out[m[1]] = value
	}
	return out
}

func parseRelease(content string) Release {
	var rel Release
	for k, v := range parseKeyValue(content) {
		switch k {
		case "ID":
			rel.ID = v
		case "NAME":
			rel.Name = v
		case "VERSION_CODENAME":
			rel.Codename = v
		case "PRETTY_NAME":
			if strings.HasSuffix(v, "/sid") || strings.HasSuffix(v, "/testing") {
				rel.Unstable = true
			}
		}
	}
	return rel
}
