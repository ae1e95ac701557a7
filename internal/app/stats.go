package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/analyzer"
	"github.com/blackwell-systems/pkgfetch/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show package counts per source",
	Long: `Display the number of installed packages per source and the number of
outdated packages.

Installed records whose source is not one of the known ones are counted
as unknown.`,
	Example: `  pkgfetch stats
  pkgfetch stats -o json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	snap, err := collect(cmd)
	if err != nil {
		return err
	}
	stats := analyzer.Compute(snap)

	return render(cmd, stats, func() string {
		return output.RenderStats(stats)
	})
}
