// Package pkgmgr wraps the OS package managers the prepare phase installs
// toolchain components with: apt on Linux, pkg on FreeBSD, pkgin/pkg_add on
// NetBSD and pkg_add on OpenBSD.
package pkgmgr

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/host"
)

// Runner executes external commands. *execute.Executor satisfies it; tests
// substitute a recorder.
type Runner interface {
	Run(ctx context.Context, cmd execute.Command) (*execute.Result, error)
}

// Manager issues package manager commands against one host.
type Manager struct {
	runner Runner
	host   *host.Host

	// out carries the progress lines that belong in the CI transcript.
	out io.Writer

	// LLVM repository endpoints, swapped for a test server in tests.
	repositoryURL string
	gpgKeyURL     string
	client        *http.Client
}

// New returns a manager printing progress to stdout.
func New(runner Runner, h *host.Host) *Manager {
	return &Manager{
		runner:        runner,
		host:          h,
		out:           os.Stdout,
		repositoryURL: llvmRepositoryURL,
		gpgKeyURL:     llvmGPGKeyURL,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

// SetOutput redirects progress lines, matching where the calling phase
// sends the rest of its transcript.
func (m *Manager) SetOutput(out io.Writer) {
	m.out = out
}

// PkgInstall installs packages with FreeBSD's pkg. Runs under sudo unless
// already root.
func (m *Manager) PkgInstall(ctx context.Context, packages []string) error {
	args := append([]string{"pkg", "install", "-y"}, packages...)
	_, err := m.runner.Run(ctx, execute.Command{Args: args, Sudo: !m.host.IsRoot})
	return err
}

// PkginInstall installs packages with NetBSD's pkgin.
func (m *Manager) PkginInstall(ctx context.Context, packages []string) error {
	args := append([]string{"pkgin", "-y", "install"}, packages...)
	_, err := m.runner.Run(ctx, execute.Command{Args: args, Sudo: !m.host.IsRoot})
	return err
}

// PkgAddInstall installs packages with pkg_add (NetBSD without pkgin, and
// OpenBSD).
func (m *Manager) PkgAddInstall(ctx context.Context, packages []string) error {
	args := append([]string{"pkg_add", "-I"}, packages...)
	_, err := m.runner.Run(ctx, execute.Command{Args: args, Sudo: !m.host.IsRoot})
	return err
}
