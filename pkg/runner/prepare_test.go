//go:build !integration

package runner

import (
	"context"
	"testing"

	"github.com/buildwright/buildwright/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareIsNoopOnPreprovisionedHosts(t *testing.T) {
	for _, family := range []host.Family{host.FamilyDarwin, host.FamilyWindows} {
		t.Run(string(family), func(t *testing.T) {
			h := &host.Host{Family: family, Arch: "amd64", NumCPU: 2}
			r, exec, _ := newTestRunner(h)

			in := mustIntent(t, h, Options{Compiler: "clang"})
			require.NoError(t, r.Prepare(context.Background(), in))
			assert.Empty(t, exec.commands)
		})
	}
}

func TestPrepareFreeBSDInstallsLLVM(t *testing.T) {
	h := &host.Host{Family: host.FamilyFreeBSD, Arch: "amd64", NumCPU: 2}
	r, exec, out := newTestRunner(h)

	in := mustIntent(t, h, Options{Compiler: "clang-17"})
	require.NoError(t, r.Prepare(context.Background(), in))

	require.Len(t, exec.commands, 1)
	assert.Equal(t, []string{"pkg", "install", "-y", "cmake", "llvm17"}, exec.commands[0].Args)
	assert.True(t, exec.commands[0].Sudo)
	assert.Contains(t, out.String(), "Need to install cmake, llvm17 packages")
}

func TestPrepareFreeBSDProvisionedHostInstallsNothing(t *testing.T) {
	h := &host.Host{Family: host.FamilyFreeBSD, Arch: "amd64", NumCPU: 2}
	r, exec, _ := newTestRunner(h)
	exec.probes["cmake --version"] = true
	exec.probes["clang-17 --version"] = true

	in := mustIntent(t, h, Options{Compiler: "clang-17"})
	require.NoError(t, r.Prepare(context.Background(), in))
	assert.Empty(t, exec.commands)
}

func TestPrepareBSDRejectsGCC(t *testing.T) {
	h := &host.Host{Family: host.FamilyOpenBSD, Arch: "amd64", NumCPU: 2}
	r, _, _ := newTestRunner(h)

	in := mustIntent(t, h, Options{Compiler: "gcc-13"})
	err := r.Prepare(context.Background(), in)
	require.EqualError(t, err, "gcc-13 compiler not supported: use clang on this platform")
}

func TestPrepareNetBSDInstallerSelection(t *testing.T) {
	h := &host.Host{Family: host.FamilyNetBSD, Arch: "amd64", NumCPU: 2}

	t.Run("pkg_add", func(t *testing.T) {
		r, exec, _ := newTestRunner(h)
		in := mustIntent(t, h, Options{Compiler: "clang"})
		require.NoError(t, r.Prepare(context.Background(), in))

		require.Len(t, exec.commands, 1)
		assert.Equal(t, []string{"pkg_add", "-I", "cmake", "clang"}, exec.commands[0].Args)
	})

	t.Run("pkgin", func(t *testing.T) {
		t.Setenv("CI_NETBSD_USE_PKGIN", "1")
		r, exec, _ := newTestRunner(h)
		in := mustIntent(t, h, Options{Compiler: "clang"})
		require.NoError(t, r.Prepare(context.Background(), in))

		require.Len(t, exec.commands, 1)
		assert.Equal(t, []string{"pkgin", "-y", "install", "cmake", "clang"}, exec.commands[0].Args)
	})
}

func TestPrepareLinuxInstallsToolchain(t *testing.T) {
	r, exec, out := newTestRunner(linuxHost())

	in := mustIntent(t, linuxHost(), Options{Compiler: "gcc-13", Architecture: "default"})
	require.NoError(t, r.Prepare(context.Background(), in))

	// Nothing is provisioned: the PPA is added for the versioned gcc,
	// then apt updates and installs the compiler, cmake and ninja.
	require.Len(t, exec.commands, 3)
	assert.Equal(t, []string{"add-apt-repository", "-y", "ppa:ubuntu-toolchain-r/test"}, exec.commands[0].Args)
	assert.Equal(t, []string{"apt-get", "update", "-qq"}, exec.commands[1].Args)
	assert.Equal(t, []string{"apt-get", "install", "-qq", "g++-13", "cmake", "ninja-build"}, exec.commands[2].Args)
	assert.Contains(t, out.String(), "Need to install g++-13, cmake, ninja-build packages")
}

func TestPrepareLinuxProvisionedHostInstallsNothing(t *testing.T) {
	r, exec, _ := newTestRunner(linuxHost())
	exec.probes["gcc-13 --version"] = true
	exec.probes["g++-13 --version"] = true
	exec.probes["cmake --version"] = true
	exec.probes["ninja --version"] = true

	in := mustIntent(t, linuxHost(), Options{Compiler: "gcc-13"})
	require.NoError(t, r.Prepare(context.Background(), in))
	assert.Empty(t, exec.commands)
}

func TestPrepareLinuxX86InstallsMultilib(t *testing.T) {
	r, exec, _ := newTestRunner(linuxHost())
	exec.probes["gcc-13 --version"] = true
	exec.probes["g++-13 --version"] = true
	exec.probes["cmake --version"] = true
	exec.probes["ninja --version"] = true

	in := mustIntent(t, linuxHost(), Options{Compiler: "gcc-13", Architecture: "x86"})
	require.NoError(t, r.Prepare(context.Background(), in))

	// i386 registration, then the usual ubuntu PPA, update and install.
	require.Len(t, exec.commands, 4)
	assert.Equal(t, []string{"dpkg", "--add-architecture", "i386"}, exec.commands[0].Args)
	assert.Equal(t, []string{"add-apt-repository", "-y", "ppa:ubuntu-toolchain-r/test"}, exec.commands[1].Args)
	assert.Equal(t, []string{"apt-get", "install", "-qq", "linux-libc-dev:i386", "g++-13-multilib"}, exec.commands[3].Args)
}

func TestPrepareLinuxX86ClangUsesGCCMultilib(t *testing.T) {
	r, exec, _ := newTestRunner(linuxHost())
	exec.probes["clang-15 --version"] = true
	exec.probes["clang++-15 --version"] = true
	exec.probes["cmake --version"] = true
	exec.probes["ninja --version"] = true

	in := mustIntent(t, linuxHost(), Options{Compiler: "clang-15", Architecture: "x86"})
	require.NoError(t, r.Prepare(context.Background(), in))

	install := exec.commands[len(exec.commands)-1]
	assert.Equal(t, []string{"apt-get", "install", "-qq", "linux-libc-dev:i386", "g++-multilib"}, install.Args)
}

func TestPrepareLinuxValgrind(t *testing.T) {
	r, exec, _ := newTestRunner(linuxHost())
	exec.probes["gcc-13 --version"] = true
	exec.probes["g++-13 --version"] = true
	exec.probes["cmake --version"] = true
	exec.probes["ninja --version"] = true

	in := mustIntent(t, linuxHost(), Options{Compiler: "gcc-13", Diagnostics: "valgrind"})
	require.NoError(t, r.Prepare(context.Background(), in))

	install := exec.commands[len(exec.commands)-1]
	assert.Equal(t, []string{"apt-get", "install", "-qq", "valgrind"}, install.Args)
}

func TestPrepareLinuxRejectsMSVC(t *testing.T) {
	r, _, _ := newTestRunner(linuxHost())

	in := mustIntent(t, linuxHost(), Options{Compiler: "vs2022"})
	err := r.Prepare(context.Background(), in)
	require.EqualError(t, err, "vs2022 compiler is not supported on linux hosts (use gcc or clang)")
}

func TestPrepareLinuxAnalyzeBuildRequiresClang(t *testing.T) {
	r, _, _ := newTestRunner(linuxHost())

	in := mustIntent(t, linuxHost(), Options{Compiler: "gcc-13", Diagnostics: "analyze-build"})
	err := r.Prepare(context.Background(), in)
	require.EqualError(t, err, "analyze-build can only be used with clang compiler, not gcc-13")

	in = mustIntent(t, linuxHost(), Options{Diagnostics: "analyze-build"})
	err = r.Prepare(context.Background(), in)
	require.EqualError(t, err, "analyze-build requires a clang compiler")
}

func TestPrepareLinuxAnalyzeBuildInstallsClangTools(t *testing.T) {
	r, exec, _ := newTestRunner(linuxHost())
	exec.probes["clang-16 --version"] = true
	exec.probes["clang++-16 --version"] = true
	exec.probes["cmake --version"] = true
	exec.probes["ninja --version"] = true

	in := mustIntent(t, linuxHost(), Options{Compiler: "clang-16", Diagnostics: "analyze-build"})
	require.NoError(t, r.Prepare(context.Background(), in))

	// The compiler itself is present, so no LLVM repository is needed;
	// the PPA still covers the clang-tools package on Ubuntu.
	require.Len(t, exec.commands, 3)
	assert.Equal(t, []string{"add-apt-repository", "-y", "ppa:ubuntu-toolchain-r/test"}, exec.commands[0].Args)
	assert.Equal(t, []string{"apt-get", "install", "-qq", "clang-tools-16"}, exec.commands[2].Args)
}
