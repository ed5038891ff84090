package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/logger"
)

var aptLog = logger.New("pkgmgr:apt")

const (
	llvmRepositoryURL = "https://apt.llvm.org"
	llvmGPGKeyURL     = "https://apt.llvm.org/llvm-snapshot.gpg.key"

	// Target of the deb822 sources file the LLVM bootstrap installs.
	llvmSourcesPath = "/etc/apt/sources.list.d/llvm.sources"

	// Ubuntu's test toolchain PPA carries recent gcc/clang builds, though
	// it sometimes lags a few versions behind the LLVM repository.
	ubuntuTestToolchainPPA = "ppa:ubuntu-toolchain-r/test"
)

// LLVMAptVersions are the clang major versions to prefer from the LLVM apt
// repository over whatever the distribution ships.
var LLVMAptVersions = []string{"16", "17"}

// AptRetrySignatures mark the transient apt failures seen on CI runners;
// apt-get invocations retry when their output contains one of these.
var AptRetrySignatures = []string{
	"Connection timed out",
	"Internal Server Error",
}

// AptInstall refreshes the package index and installs the packages, both
// with the transient-failure retry policy.
func (m *Manager) AptInstall(ctx context.Context, packages []string) error {
	retry := &execute.RetryPolicy{Signatures: AptRetrySignatures}

	if _, err := m.runner.Run(ctx, execute.Command{
		Args:  []string{"apt-get", "update", "-qq"},
		Sudo:  true,
		Retry: retry,
	}); err != nil {
		return err
	}

	args := append([]string{"apt-get", "install", "-qq"}, packages...)
	_, err := m.runner.Run(ctx, execute.Command{Args: args, Sudo: true, Retry: retry})
	return err
}

// AddI386Architecture enables the i386 dpkg architecture so 32-bit
// multilib packages become installable.
func (m *Manager) AddI386Architecture(ctx context.Context) error {
	_, err := m.runner.Run(ctx, execute.Command{
		Args: []string{"dpkg", "--add-architecture", "i386"},
		Sudo: true,
	})
	return err
}

// AddUbuntuTestToolchainPPA registers Ubuntu's test toolchain PPA.
func (m *Manager) AddUbuntuTestToolchainPPA(ctx context.Context) error {
	_, err := m.runner.Run(ctx, execute.Command{
		Args: []string{"add-apt-repository", "-y", ubuntuTestToolchainPPA},
		Sudo: true,
	})
	return err
}

// AddLLVMAptRepository registers the LLVM apt repository serving the given
// clang major version for the host's distribution release: verify the
// release is served, download the signing key, and install a deb822
// sources file referencing both.
func (m *Manager) AddLLVMAptRepository(ctx context.Context, version string) error {
	rel := m.host.Release
	if rel.Codename == "" {
		return errors.New("failed to get a distribution codename, cannot continue")
	}

	codename := rel.Codename
	if rel.Unstable {
		codename = "unstable"
	}
	fmt.Fprintf(m.out, "Detected OS release codename: %s (%s for llvm repository)\n", rel.Codename, codename)

	url := m.repositoryURL + "/" + codename
	fmt.Fprintf(m.out, "Verifying whether LLVM provides builds for this OS release (url=%s)\n", url)

	if !m.remoteExists(ctx, url) {
		fmt.Fprintln(m.out, "!! Failure !!")
		return fmt.Errorf("LLVM toolchain doesn't exist on remote")
	}

	linkName := ""
	if codename != "unstable" {
		linkName = "-" + codename
	}

	key, err := m.downloadText(ctx, m.gpgKeyURL)
	if err != nil {
		return fmt.Errorf("failed to download the LLVM signing key: %w", err)
	}

	sources := formatSources("deb", url+"/", fmt.Sprintf("llvm-toolchain%s-%s", linkName, version), "main", key)
	fmt.Fprintln(m.out, "Writing apt sources file:\n"+sources)

	tmp, err := os.CreateTemp("", "llvm-*.sources")
	if err != nil {
		return fmt.Errorf("failed to write apt sources file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sources); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write apt sources file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write apt sources file: %w", err)
	}

	// Writing into /etc needs root, so the move runs through the runner.
	if _, err := m.runner.Run(ctx, execute.Command{
		Args: []string{"mv", tmpName, llvmSourcesPath},
		Sudo: true,
	}); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (m *Manager) remoteExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		aptLog.Printf("HEAD %s failed: %v", url, err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

func (m *Manager) downloadText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatSources renders a deb822 sources entry. The signing key is inlined
// under Signed-By with the one-space indent deb822 requires; blank key
// lines become "." so the parser doesn't treat them as paragraph breaks.
// Everything after the PGP end marker is dropped.
func formatSources(types, uri, suites, components, key string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Types: %s\nURIs: %s\nSuites: %s\n", types, uri, suites)
	if components != "" {
		fmt.Fprintf(&b, "Components: %s\n", components)
	}
	b.WriteString("Signed-By:\n")
	for _, line := range strings.Split(key, "\n") {
		if line == "" {
			line = "."
		}
		b.WriteString(" " + line + "\n")
		if line == "-----END PGP PUBLIC KEY BLOCK-----" {
			break
		}
	}
	return b.String() + "\n"
}
