package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/config"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
	"github.com/blackwell-systems/pkgfetch/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which package tools pkgfetch can use",
	Long: `Runs diagnostic checks on the host.

Checks:
  • Configuration file is readable
  • A package manager family is detected
  • Each tool of that family answers
  • df is available for disk usage
  • Package databases exist for 'pkgfetch watch'`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	runner := newRunner(settings.CommandTimeout)

	fmt.Fprintln(out, "Running pkgfetch diagnostics...")
	fmt.Fprintln(out)

	critical := 0

	if dir, err := config.Dir(); err != nil {
		fmt.Fprintln(out, "⚠ Config directory unknown:", err)
	} else if path := filepath.Join(dir, config.FileName); fileExists(path) {
		fmt.Fprintln(out, "✓ Config loaded:", path)
	} else {
		fmt.Fprintln(out, "✓ Using built-in defaults (no config file)")
	}

	detection := pkgmgr.Detect(ctx, runner)
	if detection.Empty() {
		fmt.Fprintln(out, "✗ No supported package manager found")
		fmt.Fprintln(out, "  Looked for: pacman, apt, rpm")
		critical++
	} else {
		fmt.Fprintf(out, "✓ Package manager family: %s (probe: %s)\n", detection.Family, detection.Probe)

		for _, q := range detection.Queries {
			fmt.Fprintln(out, toolCheck(cmd, runner, q.Tool, string(q.Source)))
			fmt.Fprintf(out, "  Lists installed with: %s %s\n", q.Tool, strings.Join(q.Args, " "))
		}
	}

	fmt.Fprintln(out, toolCheck(cmd, runner, "df", "disk usage"))

	watched := 0
	for _, p := range watcher.DefaultPaths {
		if fileExists(p) {
			watched++
			fmt.Fprintln(out, "✓ Package database:", p)
		}
	}
	if watched == 0 {
		fmt.Fprintln(out, "⚠ No package database found, 'pkgfetch watch' will refresh on interval only")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if critical > 0 {
		return errors.New("diagnostics found critical issues")
	}
	fmt.Fprintln(out, "✓ All checks passed")
	return nil
}

// toolCheck runs `tool --version` and formats the outcome as a check line.
func toolCheck(cmd *cobra.Command, runner pkgmgr.Runner, tool, role string) string {
	_, err := runner.Run(cmd.Context(), tool, "--version")
	switch {
	case err == nil:
		return fmt.Sprintf("✓ %s (%s)", tool, role)
	case pkgmgr.IsAbsent(err):
		return fmt.Sprintf("⚠ %s not installed (%s)", tool, role)
	default:
		return fmt.Sprintf("⚠ %s present but failing (%s): %v", tool, role, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
