package inventory

import (
	"time"

	"github.com/blackwell-systems/pkgfetch/internal/disk"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

// Snapshot is one internally consistent view of the host's packages and
// volumes. It is never modified after it has been published; a refresh
// builds a new one.
type Snapshot struct {
	Family     pkgmgr.Family   `json:"family" yaml:"family"`
	Installed  []pkgmgr.Record `json:"installed" yaml:"installed"`
	Outdated   []pkgmgr.Record `json:"outdated" yaml:"outdated"`
	Recent     []pkgmgr.Record `json:"recent" yaml:"recent"`
	Volumes    []disk.Volume   `json:"volumes" yaml:"volumes"`
	LastError  string          `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	TakenAt    time.Time       `json:"taken_at" yaml:"taken_at"`
	Generation uint64          `json:"generation" yaml:"generation"`
}

// HasError reports whether the outdated query failed in this refresh.
func (s *Snapshot) HasError() bool {
	return s.LastError != ""
}

// Empty reports whether the snapshot has not been filled by a refresh yet.
func (s *Snapshot) Empty() bool {
	return s.Generation == 0
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Installed: []pkgmgr.Record{},
		Outdated:  []pkgmgr.Record{},
		Recent:    []pkgmgr.Record{},
		Volumes:   []disk.Volume{},
	}
}
