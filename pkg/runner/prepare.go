package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/buildwright/buildwright/pkg/pkgmgr"
	"github.com/buildwright/buildwright/pkg/toolchain"
)

var prepareLog = logger.New("runner:prepare")

// Prepare installs whatever the later phases need that the host doesn't
// already have: the requested compiler, cmake, the generator's build tool
// and the diagnostics tooling. Every check is a capability probe, so
// rerunning prepare on a provisioned host installs nothing.
//
// Windows and macOS runners ship with their toolchains preinstalled;
// prepare is a no-op there.
func (r *Runner) Prepare(ctx context.Context, in *Intent) error {
	r.annotator.BeginGroup("Prepare")
	defer r.annotator.EndGroup()

	prepareLog.Printf("Preparing %s host (compiler=%s generator=%s diagnostics=%s)",
		r.host.Family, in.Compiler.Name, in.Generator.Name, in.Diagnostics)

	switch r.host.Family {
	case host.FamilyWindows, host.FamilyDarwin:
		return nil
	case host.FamilyFreeBSD:
		return r.prepareFreeBSD(ctx, in)
	case host.FamilyNetBSD:
		return r.prepareNetBSD(ctx, in)
	case host.FamilyOpenBSD:
		return r.prepareOpenBSD(ctx, in)
	case host.FamilyLinux:
		return r.prepareLinux(ctx, in)
	default:
		return fmt.Errorf("unknown platform: %s", r.host.Family)
	}
}

// clangPackages returns the packages that provide the requested clang on a
// BSD host, or an error when a non-clang compiler was requested. The BSDs
// only carry clang toolchains.
func (r *Runner) clangPackages(ctx context.Context, c toolchain.Compiler, packageName func(toolchain.Compiler) string) ([]string, error) {
	if c.IsZero() {
		return nil, nil
	}
	if c.Family != toolchain.CompilerClang {
		return nil, fmt.Errorf("%s compiler not supported: use clang on this platform", c.Name)
	}
	if r.exec.Probe(ctx, c.Name, "--version") {
		return nil, nil
	}
	return []string{packageName(c)}, nil
}

func (r *Runner) prepareFreeBSD(ctx context.Context, in *Intent) error {
	var packages []string

	if !r.exec.Probe(ctx, "cmake", "--version") {
		packages = append(packages, "cmake")
	}

	// FreeBSD ships clang inside the llvm packages.
	compilerPackages, err := r.clangPackages(ctx, in.Compiler, func(c toolchain.Compiler) string {
		return "llvm" + c.Version
	})
	if err != nil {
		return err
	}
	packages = append(packages, compilerPackages...)

	if len(packages) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "Need to install %s packages\n", strings.Join(packages, ", "))
	return r.pkgs.PkgInstall(ctx, packages)
}

func (r *Runner) prepareNetBSD(ctx context.Context, in *Intent) error {
	var packages []string

	if !r.exec.Probe(ctx, "cmake", "--version") {
		packages = append(packages, "cmake")
	}

	compilerPackages, err := r.clangPackages(ctx, in.Compiler, func(c toolchain.Compiler) string {
		return c.Name
	})
	if err != nil {
		return err
	}
	packages = append(packages, compilerPackages...)

	if len(packages) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "Need to install %s packages\n", strings.Join(packages, ", "))

	if os.Getenv("CI_NETBSD_USE_PKGIN") != "" {
		return r.pkgs.PkginInstall(ctx, packages)
	}
	return r.pkgs.PkgAddInstall(ctx, packages)
}

func (r *Runner) prepareOpenBSD(ctx context.Context, in *Intent) error {
	var packages []string

	if !r.exec.Probe(ctx, "cmake", "--version") {
		packages = append(packages, "cmake")
	}

	compilerPackages, err := r.clangPackages(ctx, in.Compiler, func(c toolchain.Compiler) string {
		return c.Name
	})
	if err != nil {
		return err
	}
	packages = append(packages, compilerPackages...)

	if len(packages) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "Need to install %s packages\n", strings.Join(packages, ", "))
	return r.pkgs.PkgAddInstall(ctx, packages)
}

func (r *Runner) prepareLinux(ctx context.Context, in *Intent) error {
	c := in.Compiler

	compilerPackage := ""
	switch c.Family {
	case toolchain.CompilerGCC:
		// gcc-N alone doesn't bring the C++ frontend; g++-N pulls both.
		compilerPackage = strings.Replace(c.Name, "gcc", "g++", 1)
	case toolchain.CompilerClang:
		compilerPackage = c.Name
	case toolchain.CompilerMSVC:
		return fmt.Errorf("%s compiler is not supported on linux hosts (use gcc or clang)", c.Name)
	}

	// Checked before anything touches the host: a doomed analyze-build
	// job must not get as far as registering apt architectures.
	if in.Diagnostics == toolchain.DiagnosticsAnalyzeBuild && c.Family != toolchain.CompilerClang {
		if c.IsZero() {
			return errors.New("analyze-build requires a clang compiler")
		}
		return fmt.Errorf("analyze-build can only be used with clang compiler, not %s", c.Name)
	}

	var packages []string
	compilerExists := true
	if compilerPackage != "" {
		compilerExists = r.exec.Probe(ctx, c.CExecutable(), "--version") &&
			r.exec.Probe(ctx, c.CPPExecutable(), "--version")
		if !compilerExists {
			packages = append(packages, compilerPackage)
		}
	}

	if in.Architecture == toolchain.ArchX86 {
		if err := r.pkgs.AddI386Architecture(ctx); err != nil {
			return err
		}
		packages = append(packages, "linux-libc-dev:i386")
		if c.Family == toolchain.CompilerGCC {
			packages = append(packages, compilerPackage+"-multilib")
		} else {
			// Even clang needs the gcc multilib bits when libstdc++ is used.
			packages = append(packages, "g++-multilib")
		}
	}

	if !r.exec.Probe(ctx, "cmake", "--version") {
		packages = append(packages, "cmake")
	}

	if in.Generator.Kind == toolchain.GeneratorNinja && !r.exec.Probe(ctx, "ninja", "--version") {
		packages = append(packages, "ninja-build")
	}

	if in.Diagnostics == toolchain.DiagnosticsValgrind && !r.exec.Probe(ctx, "valgrind", "--version") {
		packages = append(packages, "valgrind")
	}

	if in.Diagnostics == toolchain.DiagnosticsAnalyzeBuild && !r.exec.Probe(ctx, c.AnalyzeBuildExecutable(), "--help") {
		packages = append(packages, strings.Replace(c.Name, "clang", "clang-tools", 1))
	}

	if len(packages) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "Need to install %s packages\n", strings.Join(packages, ", "))

	// Versioned clang releases come from the LLVM apt repository when it
	// serves them; everything else on Ubuntu goes through the test
	// toolchain PPA.
	if c.Family == toolchain.CompilerClang && !compilerExists && c.MatchesVersion(pkgmgr.LLVMAptVersions) {
		if err := r.pkgs.AddLLVMAptRepository(ctx, c.Version); err != nil {
			return err
		}
	} else if r.host.Release.ID == "ubuntu" {
		if err := r.pkgs.AddUbuntuTestToolchainPPA(ctx); err != nil {
			return err
		}
	}

	return r.pkgs.AptInstall(ctx, packages)
}
