package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/analyzer"
	"github.com/blackwell-systems/pkgfetch/internal/config"
	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/log"
	"github.com/blackwell-systems/pkgfetch/internal/output"
)

var (
	flagTimeout time.Duration
	flagRecent  int
	flagDebug   bool
	flagOutput  string

	// settings is the resolved configuration for the running command.
	settings = config.Default()

	// RootCmd is the root command for pkgfetch
	RootCmd = &cobra.Command{
		Use:   "pkgfetch",
		Short: "Package inventory and disk usage at a glance",
		Long: `pkgfetch detects the host's package manager family, collects installed,
outdated and recently added packages from every tool of that family, and
reports disk usage per mounted device.

Supported families:
  • Arch: pacman, plus an AUR helper (yay)
  • Debian: dpkg, plus flatpak
  • RPM: rpm and dnf, plus flatpak

Without a subcommand, pkgfetch prints a summary.

Configuration is read from $XDG_CONFIG_HOME/pkgfetch/config:
  command_timeout = 30s
  recent_limit    = 5
  watch_interval  = 5m
  debounce        = 2s`,
		Example: `  # Summary of packages and disks
  pkgfetch

  # Outdated packages as JSON
  pkgfetch list outdated -o json

  # Refresh whenever the package database changes
  pkgfetch watch`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
		RunE:              runSummary,
	}
)

func init() {
	RootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-command timeout (default from config, 30s)")
	RootCmd.PersistentFlags().IntVar(&flagRecent, "recent", -1, "recent packages per source (default from config, 5)")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log tool invocations and failures to stderr")
	RootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", formatText, "output format: text, json or yaml")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// ExecuteContext runs the root command with ctx as every command's context.
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// loadSettings resolves the config file and flag overrides into settings.
func loadSettings(cmd *cobra.Command, args []string) error {
	log.SetDebug(flagDebug)

	if err := validateFormat(flagOutput); err != nil {
		return err
	}

	cfg := config.Default()
	dir, err := config.Dir()
	if err != nil {
		log.Debug("no config directory", "err", err)
	} else if cfg, err = config.Load(dir); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flagTimeout != 0 {
		cfg.CommandTimeout = flagTimeout
	}
	if flagRecent >= 0 {
		cfg.RecentLimit = flagRecent
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	return nil
}

type summaryView struct {
	Snapshot *inventory.Snapshot `json:"snapshot" yaml:"snapshot"`
	Stats    analyzer.Stats      `json:"stats" yaml:"stats"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	snap, err := collect(cmd)
	if err != nil {
		return err
	}
	stats := analyzer.Compute(snap)

	return render(cmd, summaryView{Snapshot: snap, Stats: stats}, func() string {
		return output.RenderSummary(snap, stats)
	})
}
