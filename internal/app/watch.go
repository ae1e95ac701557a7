package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/analyzer"
	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/output"
	"github.com/blackwell-systems/pkgfetch/internal/watcher"
)

var (
	watchInterval time.Duration
	watchDebounce time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Refresh the inventory when packages change",
		Long: `Keep refreshing the package inventory in the foreground.

A refresh runs when a package database directory changes (after a short
debounce, so one upgrade triggers one refresh) and on a fixed interval.
Each refresh prints a one-line status. Ctrl+C cancels an in-flight refresh
and exits.

Watched directories, when present:
  /var/lib/pacman/local
  /var/lib/dpkg
  /var/lib/rpm
  /var/lib/flatpak`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  pkgfetch watch

  # Refresh every minute regardless of changes
  pkgfetch watch --interval 1m`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "periodic refresh interval (default from config, 5m)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", -1, "quiet period after a database change (default from config, 2s)")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval := settings.WatchInterval
	if watchInterval > 0 {
		interval = watchInterval
	}
	debounce := settings.Debounce
	if watchDebounce >= 0 {
		debounce = watchDebounce
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newService()
	out := cmd.OutOrStdout()

	snap, err := svc.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	fmt.Fprint(out, output.RenderSummary(snap, analyzer.Compute(snap)))
	fmt.Fprintln(out)

	w, err := watcher.New(watcher.DefaultPaths, interval, debounce, func(ctx context.Context) error {
		snap, err := svc.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, statusLine(snap))
		return nil
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %d package database(s), refreshing every %s. Press Ctrl+C to stop.\n",
		len(w.Watched()), interval)

	<-ctx.Done()
	return w.Stop()
}

// statusLine summarizes one refresh on a single line.
func statusLine(snap *inventory.Snapshot) string {
	stats := analyzer.Compute(snap)
	line := fmt.Sprintf("[%s] #%d: %s packages, %s outdated",
		snap.TakenAt.Format("15:04:05"),
		snap.Generation,
		humanize.Comma(int64(stats.Total)),
		humanize.Comma(int64(stats.Outdated)))
	if snap.HasError() {
		line += " (" + snap.LastError + ")"
	}
	return line
}
