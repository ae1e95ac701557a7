package pkgmgr

import (
	"context"

	"github.com/blackwell-systems/pkgfetch/internal/log"
)

// lineAdapter covers tools whose listings carry one package per line and no
// structured fields. Name is the raw line and Version is always empty.
type lineAdapter struct {
	runner        Runner
	tool          string
	source        Source
	installedArgs []string
	outdatedArgs  []string // nil: no outdated query
	syncArgs      []string // run before the outdated query, result discarded
	recent        bool
}

// NewPacman returns the adapter for the Arch native package manager.
func NewPacman(r Runner) Adapter {
	return &lineAdapter{
		runner:        r,
		tool:          "pacman",
		source:        SourceNative,
		installedArgs: []string{"-Q"},
		outdatedArgs:  []string{"-Qu"},
		syncArgs:      []string{"-Sy"},
		recent:        true,
	}
}

// NewAURHelper returns the adapter for an AUR helper (yay by default),
// reporting foreign packages under SourceCommunity.
func NewAURHelper(r Runner, tool string) Adapter {
	if tool == "" {
		tool = "yay"
	}
	return &lineAdapter{
		runner:        r,
		tool:          tool,
		source:        SourceCommunity,
		installedArgs: []string{"-Qm"},
		outdatedArgs:  []string{"-Qu"},
		recent:        true,
	}
}

// NewDpkg returns the Debian adapter. Only installed packages are listed.
func NewDpkg(r Runner) Adapter {
	return &lineAdapter{
		runner:        r,
		tool:          "dpkg",
		source:        SourceDebian,
		installedArgs: []string{"-l"},
	}
}

// NewFlatpak returns the companion Flatpak adapter.
func NewFlatpak(r Runner) Adapter {
	return &lineAdapter{
		runner:        r,
		tool:          "flatpak",
		source:        SourceFlatpak,
		installedArgs: []string{"list"},
	}
}

func (a *lineAdapter) Source() Source { return a.source }

func (a *lineAdapter) Tool() string { return a.tool }

func (a *lineAdapter) ListInstalled(ctx context.Context) ([]Record, error) {
	out, err := a.runner.Run(ctx, a.tool, a.installedArgs...)
	if err != nil {
		return nil, err
	}
	return a.parseLines(nonBlankLines(out)), nil
}

func (a *lineAdapter) ListOutdated(ctx context.Context) ([]Record, error) {
	if a.outdatedArgs == nil {
		return nil, ErrUnsupported
	}

	if a.syncArgs != nil {
		// best effort: usually needs root, and a stale database still
		// gives a usable answer
		if _, err := a.runner.Run(ctx, a.tool, a.syncArgs...); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug("database sync failed", "tool", a.tool, "err", err)
		}
	}

	out, err := a.runner.Run(ctx, a.tool, a.outdatedArgs...)
	if err != nil {
		return nil, err
	}
	return a.parseLines(nonBlankLines(out)), nil
}

// ListRecent approximates recently installed packages with the tail of the
// installed listing, newest first.
func (a *lineAdapter) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if !a.recent {
		return nil, ErrUnsupported
	}

	out, err := a.runner.Run(ctx, a.tool, a.installedArgs...)
	if err != nil {
		return nil, err
	}
	return a.parseLines(lastReversed(nonBlankLines(out), limit)), nil
}

func (a *lineAdapter) parseLines(lines []string) []Record {
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, Record{Name: line, Source: a.source})
	}
	return records
}

// lastReversed returns up to limit lines from the end of lines, last first.
func lastReversed(lines []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	if limit > len(lines) {
		limit = len(lines)
	}
	result := make([]string, 0, limit)
	for i := len(lines) - 1; i >= len(lines)-limit; i-- {
		result = append(result, lines[i])
	}
	return result
}
