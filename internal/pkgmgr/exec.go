package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// DefaultTimeout bounds a single external invocation.
const DefaultTimeout = 30 * time.Second

// killGrace is how long a cancelled tool gets between SIGTERM and SIGKILL.
const killGrace = 2 * time.Second

// ErrToolAbsent means the tool could not be located or started.
var ErrToolAbsent = errors.New("tool not available")

// CommandError describes a tool that started but did not finish successfully.
type CommandError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	var msg string
	switch {
	case e.TimedOut:
		msg = fmt.Sprintf("%s timed out", cmdline)
	case e.ExitCode > 0:
		msg = fmt.Sprintf("%s failed with exit code %d", cmdline, e.ExitCode)
	default:
		msg = fmt.Sprintf("%s failed: %v", cmdline, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + firstLine(stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs real processes. Each call is bounded by Timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner returns a runner with the given per-command timeout.
// A non-positive timeout selects DefaultTimeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

// Run starts name with args and waits for it. A missing binary yields an
// error wrapping ErrToolAbsent; a non-zero exit or a timeout yields a
// *CommandError. If ctx is cancelled the process is sent SIGTERM and ctx.Err()
// is returned.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrToolAbsent)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// forward the environment but pin the locale so numbers and headers
	// are printed the same way everywhere
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s: %w: %v", name, ErrToolAbsent, err)
	}

	err := cmd.Wait()
	if err == nil {
		return stdout.String(), nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	cmdErr := &CommandError{
		Tool:   name,
		Args:   args,
		Stderr: stderr.String(),
		Err:    err,
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		cmdErr.TimedOut = true
		return "", cmdErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return "", cmdErr
}

// IsAbsent reports whether err means the tool was not there to run.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrToolAbsent)
}

// IsUnsupported reports whether err means the query kind is not defined.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

// nonBlankLines splits output into lines, dropping blank ones.
func nonBlankLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
