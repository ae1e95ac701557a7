package analyzer

import "github.com/blackwell-systems/pkgfetch/internal/pkgmgr"

// Stats summarizes a Snapshot's package lists. It is derived data and is
// recomputed for every Snapshot rather than stored alongside it.
type Stats struct {
	Total    int                   `json:"total" yaml:"total"`
	BySource map[pkgmgr.Source]int `json:"by_source" yaml:"by_source"`
	Outdated int                   `json:"outdated" yaml:"outdated"`
}

// SourceCount is one non-empty bucket of Stats, in display order.
type SourceCount struct {
	Source pkgmgr.Source
	Count  int
}
