package pkgmgr

import (
	"context"
	"fmt"
	"strings"
)

const (
	metadataBanner = "Last metadata"
	installAction  = "install"
	historyLimit   = 5
)

// rpmAdapter lists installed packages from the rpm database and asks dnf for
// upgrades and transaction history.
type rpmAdapter struct {
	runner Runner
}

// NewRPM returns the adapter for RPM-based distributions.
func NewRPM(r Runner) Adapter {
	return &rpmAdapter{runner: r}
}

func (a *rpmAdapter) Source() Source { return SourceRPM }

func (a *rpmAdapter) Tool() string { return "rpm" }

func (a *rpmAdapter) ListInstalled(ctx context.Context) ([]Record, error) {
	out, err := a.runner.Run(ctx, "rpm", "-qa")
	if err != nil {
		return nil, err
	}

	lines := nonBlankLines(out)
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, Record{Name: line, Source: SourceRPM})
	}
	return records, nil
}

func (a *rpmAdapter) ListOutdated(ctx context.Context) ([]Record, error) {
	out, err := a.runner.Run(ctx, "dnf", "list", "upgrades")
	if err != nil {
		return nil, err
	}
	return parseDnfUpgrades(out), nil
}

func (a *rpmAdapter) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	out, err := a.runner.Run(ctx, "dnf", "history", "list", "installed", fmt.Sprintf("--limit=%d", historyLimit))
	if err != nil {
		return nil, err
	}

	records := parseDnfHistory(out)
	if limit < 0 {
		limit = 0
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// parseDnfUpgrades reads `dnf list upgrades`:
//
//	Available Upgrades
//	kernel.x86_64    6.8.9-300.fc40    updates
//
// The first line is a header and the metadata expiration banner may appear
// anywhere.
func parseDnfUpgrades(output string) []Record {
	var records []Record
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, metadataBanner) {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		records = append(records, Record{Name: fields[0], Version: fields[1], Source: SourceRPM})
	}
	return records
}

// parseDnfHistory reads `dnf history list`:
//
//	ID | Command line        | Date and time    | Action(s) | Altered
//	 7 | install htop        | 2024-05-01 10:02 | Install   |    1
//
// Only the package name from install transactions is kept.
func parseDnfHistory(output string) []Record {
	var records []Record
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		joined := strings.Join(fields[2:], " ")
		if !strings.Contains(joined, installAction) {
			continue
		}

		name := "unknown"
		for _, tok := range strings.Fields(joined) {
			if tok == installAction || strings.HasPrefix(tok, "-") {
				continue
			}
			name = tok
			break
		}
		records = append(records, Record{Name: name, Source: SourceRPM})
	}
	return records
}
