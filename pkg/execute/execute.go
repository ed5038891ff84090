// Package execute runs external commands for the build pipeline.
//
// Commands run synchronously with stdout and stderr captured into buffers;
// the captured output is printed after the command finishes so that lines
// from concurrent tools never interleave inside a log group. A bounded
// retry loop reruns commands whose output matches known transient failure
// signatures (apt mirrors timing out mid-install, mostly).
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/envutil"
	"github.com/buildwright/buildwright/pkg/host"
	"github.com/buildwright/buildwright/pkg/logger"
)

var execLog = logger.New("execute:run")

// DefaultRetryInterval is the fixed pause between retried attempts.
const DefaultRetryInterval = time.Second

// DefaultRetryAttempts returns the attempt budget used when a RetryPolicy
// doesn't set one. Overridable via BUILDWRIGHT_RETRY_COUNT.
func DefaultRetryAttempts() int {
	return envutil.IntInRange("BUILDWRIGHT_RETRY_COUNT", 3, 1, 10)
}

// RetryPolicy retries a failed command when its captured output contains
// one of the signatures. Attempts bounds the total number of runs (not the
// number of retries); zero means DefaultRetryAttempts. A command failing
// without a matched signature is never rerun.
type RetryPolicy struct {
	Signatures []string
	Attempts   int
	Interval   time.Duration
}

// Command describes one external command invocation.
//
// The zero value of the option fields gives the default behavior: the
// command line is echoed, a non-zero exit is an error, no sudo, no retry.
type Command struct {
	Args []string
	Dir  string            // working directory; empty = inherit
	Env  map[string]string // overlaid onto the current environment
	Sudo bool              // prefix sudo, but only when the host has it

	// NoCheck makes a non-zero exit an ordinary Result instead of an
	// error. Test binaries are run this way: their exit codes are tallied
	// by the aggregator, not handled as command failures.
	NoCheck bool

	// Quiet suppresses echoing the command line.
	Quiet bool

	Retry *RetryPolicy
}

// Result carries the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandError reports a command that exited non-zero while checking was
// requested.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command '%s' exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

// Executor runs commands against a detected host context. The context
// decides whether Sudo actually prefixes sudo.
type Executor struct {
	Host *host.Host

	// Out receives the command echo, captured output and retry notices.
	// Defaults to os.Stdout; tests substitute a buffer.
	Out io.Writer
}

// NewExecutor returns an executor printing to stdout.
func NewExecutor(h *host.Host) *Executor {
	return &Executor{Host: h, Out: os.Stdout}
}

// Run executes the command and returns its result.
//
// Exit-code failures honor NoCheck and the retry policy. Failures to start
// at all (missing binary, canceled context) are returned immediately and
// are never retried.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("cannot run an empty command")
	}

	args := cmd.Args
	if cmd.Sudo && e.Host.HasSudo {
		args = append([]string{"sudo"}, args...)
	}

	if !cmd.Quiet {
		fmt.Fprintln(e.Out, console.FormatCommandMessage(strings.Join(args, " ")))
	}

	attempts := 1
	interval := DefaultRetryInterval
	if cmd.Retry != nil {
		attempts = cmd.Retry.Attempts
		if attempts <= 0 {
			attempts = DefaultRetryAttempts()
		}
		if cmd.Retry.Interval > 0 {
			interval = cmd.Retry.Interval
		}
	}

	for attempt := 1; ; attempt++ {
		result, err := e.runOnce(ctx, args, cmd)
		if err != nil {
			return nil, err
		}

		if result.ExitCode == 0 || cmd.NoCheck {
			e.printCaptured(result)
			return result, nil
		}

		if signature := matchSignature(cmd.Retry, result); signature != "" && attempt < attempts {
			execLog.Printf("Attempt %d/%d failed with matched signature %q", attempt, attempts, signature)
			fmt.Fprintf(e.Out, "Retrying command because of '%s' error (retry pattern matched)\n", signature)
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}

		e.printCaptured(result)
		return result, &CommandError{
			Args:     args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}
}

func (e *Executor) runOnce(ctx context.Context, args []string, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = overlayEnviron(cmd.Env)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", args[0], err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

// printCaptured mirrors the captured streams to the executor output once
// the command is done. Both streams are printed even when empty so that
// command transcripts keep a stable shape.
func (e *Executor) printCaptured(res *Result) {
	fmt.Fprintln(e.Out, res.Stdout)
	fmt.Fprintln(e.Out, res.Stderr)
}

func matchSignature(policy *RetryPolicy, res *Result) string {
	if policy == nil {
		return ""
	}
	for _, signature := range policy.Signatures {
		if strings.Contains(res.Stdout, signature) || strings.Contains(res.Stderr, signature) {
			return signature
		}
	}
	return ""
}

func overlayEnviron(overlay map[string]string) []string {
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+overlay[k])
	}
	return env
}

// Probe reports whether the argument vector can be invoked successfully.
// It is the capability check used all over prepare ("is cmake there?", "is
// clang-17 there?"): output is discarded and failure is just false.
func Probe(ctx context.Context, args ...string) bool {
	if len(args) == 0 {
		return false
	}
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

// Probe on an executor delegates to the package-level Probe; it exists so
// phase code can take the executor as its only execution dependency.
func (e *Executor) Probe(ctx context.Context, args ...string) bool {
	return Probe(ctx, args...)
}
