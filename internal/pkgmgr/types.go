package pkgmgr

import (
	"context"
	"errors"
)

// Source identifies which package manager reported a record.
type Source string

const (
	SourceNative    Source = "pacman"
	SourceCommunity Source = "aur"
	SourceDebian    Source = "apt"
	SourceRPM       Source = "rpm"
	SourceFlatpak   Source = "flatpak"
	SourceUnknown   Source = "unknown"
)

// Sources lists every known source in display order.
var Sources = []Source{
	SourceNative,
	SourceCommunity,
	SourceDebian,
	SourceRPM,
	SourceFlatpak,
	SourceUnknown,
}

// Record is a single package as reported by one tool. Name is the raw
// identifier the tool printed; the same name may appear under two sources.
type Record struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Source  Source `json:"source" yaml:"source"`
}

// ErrUnsupported is returned by adapters for query kinds their family
// does not define.
var ErrUnsupported = errors.New("query not supported by this package manager")

// Adapter translates one package manager's invocations and output into
// Records. Each query can fail independently; see ErrToolAbsent and
// CommandError for the failure kinds.
type Adapter interface {
	Source() Source
	Tool() string
	ListInstalled(ctx context.Context) ([]Record, error)
	ListOutdated(ctx context.Context) ([]Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
