package pkgmgr_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestExecRunner_Success(t *testing.T) {
	requireTool(t, "sh")
	r := pkgmgr.NewExecRunner(5 * time.Second)

	out, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q, want hello", out)
	}
}

func TestExecRunner_Absent(t *testing.T) {
	r := pkgmgr.NewExecRunner(time.Second)

	_, err := r.Run(context.Background(), "pkgfetch-no-such-tool-7f3a")
	if !pkgmgr.IsAbsent(err) {
		t.Fatalf("error = %v, want ErrToolAbsent", err)
	}
}

func TestExecRunner_ExitFailure(t *testing.T) {
	requireTool(t, "sh")
	r := pkgmgr.NewExecRunner(5 * time.Second)

	_, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	var cmdErr *pkgmgr.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Error(), "boom") {
		t.Errorf("message %q should carry stderr", cmdErr.Error())
	}
	if pkgmgr.IsAbsent(err) {
		t.Error("a failing tool must not be reported as absent")
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	requireTool(t, "sleep")
	r := pkgmgr.NewExecRunner(50 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), "sleep", "10")
	var cmdErr *pkgmgr.CommandError
	if !errors.As(err, &cmdErr) || !cmdErr.TimedOut {
		t.Fatalf("error = %v, want timed out *CommandError", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestExecRunner_Cancel(t *testing.T) {
	requireTool(t, "sleep")
	r := pkgmgr.NewExecRunner(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := r.Run(ctx, "sleep", "10")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestCommandError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgmgr.CommandError
		want string
	}{
		{
			name: "exit code with stderr",
			err:  &pkgmgr.CommandError{Tool: "pacman", Args: []string{"-Qu"}, ExitCode: 1, Stderr: "error: db locked\nmore"},
			want: "pacman -Qu failed with exit code 1: error: db locked",
		},
		{
			name: "timeout",
			err:  &pkgmgr.CommandError{Tool: "dnf", Args: []string{"list", "upgrades"}, TimedOut: true},
			want: "dnf list upgrades timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
