// Package analyzer derives package statistics from inventory snapshots.
package analyzer

import (
	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

// Compute counts installed packages per source in a single pass. Records
// with a source outside the known set are counted as unknown. Compute does not
// modify snap and is safe to call concurrently.
func Compute(snap *inventory.Snapshot) Stats {
	stats := Stats{BySource: make(map[pkgmgr.Source]int)}
	if snap == nil {
		return stats
	}

	for _, rec := range snap.Installed {
		stats.BySource[bucket(rec.Source)]++
	}
	for _, n := range stats.BySource {
		stats.Total += n
	}
	stats.Outdated = len(snap.Outdated)

	return stats
}

// Count returns the number of installed packages from src.
func (s Stats) Count(src pkgmgr.Source) int {
	return s.BySource[src]
}

// Breakdown returns the non-empty buckets in pkgmgr.Sources order.
func (s Stats) Breakdown() []SourceCount {
	var counts []SourceCount
	for _, src := range pkgmgr.Sources {
		if n := s.BySource[src]; n > 0 {
			counts = append(counts, SourceCount{Source: src, Count: n})
		}
	}
	return counts
}

func bucket(src pkgmgr.Source) pkgmgr.Source {
	for _, known := range pkgmgr.Sources {
		if src == known {
			return src
		}
	}
	return pkgmgr.SourceUnknown
}
