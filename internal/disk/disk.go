// Package disk reports mounted block-device volumes and their utilization
// as seen by df.
package disk

import (
	"context"
	"sort"
	"strings"

	"github.com/blackwell-systems/pkgfetch/internal/log"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
	"github.com/blackwell-systems/pkgfetch/internal/units"
)

const (
	devicePrefix = "/dev/"
	loopMarker   = "loop"
)

// Volume is one mounted filesystem. UsedBytes+AvailableBytes can be less than
// TotalBytes because of reserved blocks; the values are taken as reported.
type Volume struct {
	Device         string  `json:"device" yaml:"device"`
	MountPoint     string  `json:"mount_point" yaml:"mount_point"`
	TotalBytes     uint64  `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes" yaml:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes" yaml:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent" yaml:"usage_percent"`
}

// Probe runs df and returns real block devices sorted by usage, fullest
// first. Failing to run df yields no volumes rather than an error.
func Probe(ctx context.Context, r pkgmgr.Runner) []Volume {
	out, err := r.Run(ctx, "df", "-h", "--output=source,target,size,used,avail,pcent")
	if err != nil {
		if !pkgmgr.IsAbsent(err) && ctx.Err() == nil {
			log.Warn("disk probe failed", "err", err)
		}
		return nil
	}
	return Parse(out)
}

// Parse decodes df output with the columns source, target, size, used, avail
// and pcent. The header is skipped, as are pseudo filesystems, loop devices
// and rows whose sizes do not decode.
func Parse(output string) []Volume {
	var volumes []Volume
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		device := fields[0]
		if !strings.HasPrefix(device, devicePrefix) || strings.Contains(device, loopMarker) {
			continue
		}

		total, err := units.Parse(fields[2])
		if err != nil {
			continue
		}
		used, err := units.Parse(fields[3])
		if err != nil {
			continue
		}
		avail, err := units.Parse(fields[4])
		if err != nil {
			continue
		}

		volumes = append(volumes, Volume{
			Device:         device,
			MountPoint:     fields[1],
			TotalBytes:     total,
			UsedBytes:      used,
			AvailableBytes: avail,
			UsagePercent:   usagePercent(used, total),
		})
	}

	sort.SliceStable(volumes, func(i, j int) bool {
		return volumes[i].UsagePercent > volumes[j].UsagePercent
	})
	return volumes
}

func usagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
