// Package runner implements the pipeline phases: prepare, configure, build
// and test, plus the combined sequence.
//
// Prepare and configure act on the normalized intent parsed from the
// command line. Build and test deliberately don't: they load the record
// configure persisted into the build directory and treat it as the single
// source of truth, so a build can't silently diverge from its
// configuration when a later invocation passes different flags.
package runner

import (
	"context"
	"io"

	"github.com/buildwright/buildwright/pkg/execute"
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/matcher"
	"github.com/buildwright/buildwright/pkg/pkgmgr"
)

// CommandRunner is the execution surface the phases need. It is satisfied
// by *execute.Executor; tests substitute a recorder with scripted probe
// answers.
type CommandRunner interface {
	Run(ctx context.Context, cmd execute.Command) (*execute.Result, error)
	Probe(ctx context.Context, args ...string) bool
}

// Runner drives pipeline phases on one host.
type Runner struct {
	host      *host.Host
	exec      CommandRunner
	pkgs      *pkgmgr.Manager
	annotator *matcher.Annotator
	out       io.Writer
}

// New returns a runner whose transcript (progress lines, group markers,
// matcher annotations) goes to out. Command output placement is owned by
// the executor inside exec.
func New(h *host.Host, exec CommandRunner, out io.Writer) *Runner {
	pkgs := pkgmgr.New(exec, h)
	pkgs.SetOutput(out)
	return &Runner{
		host:      h,
		exec:      exec,
		pkgs:      pkgs,
		annotator: matcher.NewAnnotator(out),
		out:       out,
	}
}

// Annotator exposes the annotator so the combined command can enable group
// markers.
func (r *Runner) Annotator() *matcher.Annotator {
	return r.annotator
}

// All runs the full pipeline, stopping at the first failing phase.
func (r *Runner) All(ctx context.Context, in *Intent) error {
	phases := []func(context.Context, *Intent) error{
		r.Prepare,
		r.Configure,
		r.Build,
		r.Test,
	}
	for _, phase := range phases {
		if err := phase(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func pluralize(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}
