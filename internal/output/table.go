// Package output provides terminal output utilities for pkgfetch.
//
// Table renderers return plain strings with optional ANSI color; width
// calculations go through go-runewidth so CJK package names and the usage bar
// glyphs keep the columns aligned.
package output

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/blackwell-systems/pkgfetch/internal/analyzer"
	"github.com/blackwell-systems/pkgfetch/internal/disk"
	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
	"github.com/blackwell-systems/pkgfetch/internal/units"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

const barWidth = 20

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderPackageTable renders records in the order given, one row each.
func RenderPackageTable(records []pkgmgr.Record) string {
	if len(records) == 0 {
		return "No packages found.\n"
	}

	var sb strings.Builder

	sb.WriteString(cell("Package", 32) + " " + cell("Version", 24) + " Source\n")
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	for _, rec := range records {
		sb.WriteString(cell(pkgmgr.DisplayName(rec), 32))
		sb.WriteString(" ")
		sb.WriteString(cell(pkgmgr.DisplayVersion(rec), 24))
		sb.WriteString(" ")
		sb.WriteString(colorize(colorGray, string(rec.Source)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderVolumeTable renders volumes with a usage bar, fullest first as
// returned by the disk probe.
func RenderVolumeTable(volumes []disk.Volume) string {
	if len(volumes) == 0 {
		return "No volumes found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s %7s %7s %7s %6s\n",
		cell("Device", 18), cell("Mounted on", 16), "Size", "Used", "Avail", "Use%"))
	sb.WriteString(strings.Repeat("─", 66+barWidth+1))
	sb.WriteString("\n")

	for _, v := range volumes {
		sb.WriteString(fmt.Sprintf("%s %s %7s %7s %7s %5.1f%% %s\n",
			cell(v.Device, 18),
			cell(v.MountPoint, 16),
			units.Format(v.TotalBytes),
			units.Format(v.UsedBytes),
			units.Format(v.AvailableBytes),
			v.UsagePercent,
			usageBar(v.UsagePercent)))
	}

	return sb.String()
}

// RenderStats renders the package counts per source and the outdated count.
func RenderStats(stats analyzer.Stats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total packages: %s\n", humanize.Comma(int64(stats.Total))))
	for _, sc := range stats.Breakdown() {
		if sc.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-9s %s\n", string(sc.Source)+":", humanize.Comma(int64(sc.Count))))
	}

	outdated := humanize.Comma(int64(stats.Outdated))
	if stats.Outdated > 0 {
		outdated = colorize(colorYellow, outdated)
	}
	sb.WriteString(fmt.Sprintf("Outdated: %s\n", outdated))

	return sb.String()
}

// RenderSummary renders the overview printed by the bare pkgfetch command.
func RenderSummary(snap *inventory.Snapshot, stats analyzer.Stats) string {
	var sb strings.Builder

	family := string(snap.Family)
	if family == "" {
		family = "none detected"
	}
	sb.WriteString(fmt.Sprintf("Package manager: %s", family))
	if !snap.TakenAt.IsZero() {
		sb.WriteString(colorize(colorGray, fmt.Sprintf(" (updated %s)", humanize.Time(snap.TakenAt))))
	}
	sb.WriteString("\n\n")

	sb.WriteString(RenderStats(stats))

	if snap.HasError() {
		sb.WriteString(colorize(colorRed, "⚠ "+snap.LastError))
		sb.WriteString("\n")
	}

	if len(snap.Recent) > 0 {
		names := make([]string, 0, len(snap.Recent))
		for _, rec := range snap.Recent {
			names = append(names, pkgmgr.DisplayName(rec))
		}
		sb.WriteString(fmt.Sprintf("Recent: %s\n", strings.Join(names, ", ")))
	}

	sb.WriteString("\n")
	sb.WriteString(RenderVolumeTable(snap.Volumes))

	if stats.Total > 0 {
		sb.WriteString("\n")
		sb.WriteString(colorize(colorGreen, Comment(stats.Total)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Comments returns every quip Comment may pick for count packages.
func Comments(count int) []string {
	n := humanize.Comma(int64(count))
	return []string{
		n + " packages installed. System is happy.",
		n + " packages installed. Don't forget Ctrl+Z!",
		n + " packages. The system is getting fat.",
		"You installed Vim again... what now?",
		"All your packages are belong to us.",
		"Package addiction is real.",
	}
}

// Comment returns a random quip about the package count.
func Comment(count int) string {
	comments := Comments(count)
	return comments[rand.Intn(len(comments))]
}

// usageBar draws percent as a fixed-width bar of filled and empty blocks.
func usageBar(percent float64) string {
	filled := int(percent * barWidth / 100)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled)
	empty := strings.Repeat("░", barWidth-filled)

	color := colorGreen
	switch {
	case percent >= 90:
		color = colorRed
	case percent >= 75:
		color = colorYellow
	}
	return colorize(color, bar) + empty
}

// cell truncates s to width display columns and pads it on the right.
func cell(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// truncate shortens s to maxLen display columns, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
