// Package pkgmgrtest provides a scripted pkgmgr.Runner for tests.
package pkgmgrtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

// Response is what a scripted command returns.
type Response struct {
	Output string
	Err    error
	Block  bool // wait for ctx cancellation instead of answering
}

// Runner answers commands from a script keyed on the full command line
// ("pacman -Qu"). Unscripted commands behave like missing tools.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewRunner returns an empty script.
func NewRunner() *Runner {
	return &Runner{responses: make(map[string]Response)}
}

// Set scripts a successful command.
func (r *Runner) Set(cmdline, output string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = Response{Output: output}
	return r
}

// Fail scripts a command that runs but exits non-zero.
func (r *Runner) Fail(cmdline string, exitCode int, stderr string) *Runner {
	fields := strings.Fields(cmdline)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = Response{Err: &pkgmgr.CommandError{
		Tool:     fields[0],
		Args:     fields[1:],
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      fmt.Errorf("exit status %d", exitCode),
	}}
	return r
}

// Block scripts a command that hangs until its context is cancelled.
func (r *Runner) Block(cmdline string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = Response{Block: true}
	return r
}

// Run implements pkgmgr.Runner.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	r.calls = append(r.calls, cmdline)
	resp, ok := r.responses[cmdline]
	r.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%s: %w", name, pkgmgr.ErrToolAbsent)
	}
	if resp.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return resp.Output, resp.Err
}

// Calls returns the command lines run so far, in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Called reports whether cmdline was run at least once.
func (r *Runner) Called(cmdline string) bool {
	for _, c := range r.Calls() {
		if c == cmdline {
			return true
		}
	}
	return false
}
