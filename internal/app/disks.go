package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/disk"
	"github.com/blackwell-systems/pkgfetch/internal/output"
)

var disksCmd = &cobra.Command{
	Use:   "disks",
	Short: "Show usage of mounted block devices",
	Long: `Show size, used and available space of every mounted /dev device,
fullest first. Loop devices and pseudo filesystems are skipped.`,
	Args: cobra.NoArgs,
	RunE: runDisks,
}

func init() {
	RootCmd.AddCommand(disksCmd)
}

func runDisks(cmd *cobra.Command, args []string) error {
	runner := newRunner(settings.CommandTimeout)
	volumes := disk.Probe(cmd.Context(), runner)
	if volumes == nil {
		volumes = []disk.Volume{}
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	return render(cmd, volumes, func() string {
		return output.RenderVolumeTable(volumes)
	})
}
