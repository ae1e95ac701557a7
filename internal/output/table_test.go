package output

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/blackwell-systems/pkgfetch/internal/analyzer"
	"github.com/blackwell-systems/pkgfetch/internal/disk"
	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
	"github.com/blackwell-systems/pkgfetch/internal/units"
)

func TestRenderPackageTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name     string
		records  []pkgmgr.Record
		contains []string
	}{
		{
			name:     "empty records",
			records:  []pkgmgr.Record{},
			contains: []string{"No packages found"},
		},
		{
			name: "pacman lines split into name and version",
			records: []pkgmgr.Record{
				{Name: "linux 6.9.7.arch1-1", Source: pkgmgr.SourceNative},
			},
			contains: []string{"linux", "6.9.7.arch1-1", "pacman"},
		},
		{
			name: "dpkg row",
			records: []pkgmgr.Record{
				{Name: "ii  bash  5.2.21-2  amd64  GNU Bourne Again SHell", Source: pkgmgr.SourceDebian},
			},
			contains: []string{"bash", "5.2.21-2", "apt"},
		},
		{
			name: "version unknown",
			records: []pkgmgr.Record{
				{Name: "htop", Source: pkgmgr.SourceRPM},
			},
			contains: []string{"htop", "unknown", "rpm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderPackageTable(tt.records)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderPackageTable() missing expected string %q\nGot:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderPackageTable_KeepsOrder(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	result := RenderPackageTable([]pkgmgr.Record{
		{Name: "zsh 5.9-5", Source: pkgmgr.SourceNative},
		{Name: "acl 2.3.2-1", Source: pkgmgr.SourceNative},
	})
	if strings.Index(result, "zsh") > strings.Index(result, "acl") {
		t.Errorf("rows were reordered:\n%s", result)
	}
}

func TestRenderVolumeTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := RenderVolumeTable(nil); !strings.Contains(got, "No volumes found") {
		t.Errorf("empty table = %q", got)
	}

	result := RenderVolumeTable([]disk.Volume{
		{
			Device:         "/dev/sda1",
			MountPoint:     "/",
			TotalBytes:     100 * units.GiB,
			UsedBytes:      90 * units.GiB,
			AvailableBytes: 10 * units.GiB,
			UsagePercent:   90,
		},
	})
	for _, expected := range []string{"/dev/sda1", "100.0G", "90.0G", "10.0G", "90.0%", strings.Repeat("█", 18) + "░░"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderVolumeTable() missing %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderStats(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	stats := analyzer.Stats{
		Total:    1234,
		Outdated: 3,
		BySource: map[pkgmgr.Source]int{
			pkgmgr.SourceNative:    1200,
			pkgmgr.SourceCommunity: 34,
		},
	}

	result := RenderStats(stats)
	for _, expected := range []string{"Total packages: 1,234", "pacman:", "1,200", "aur:", "34", "Outdated: 3"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderStats() missing %q\nGot:\n%s", expected, result)
		}
	}
	if strings.Contains(result, "flatpak") {
		t.Errorf("sources without packages should be omitted:\n%s", result)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	snap := &inventory.Snapshot{
		Family:    pkgmgr.FamilyArch,
		Installed: []pkgmgr.Record{{Name: "bash 5.2", Source: pkgmgr.SourceNative}},
		Recent:    []pkgmgr.Record{{Name: "htop 3.3.0-3", Source: pkgmgr.SourceNative}},
		LastError: "pacman -Qu failed with exit code 1",
		TakenAt:   time.Now().Add(-3 * time.Minute),
	}
	stats := analyzer.Compute(snap)

	result := RenderSummary(snap, stats)
	for _, expected := range []string{"Package manager: arch", "3 minutes ago", "Total packages: 1", "pacman -Qu failed", "Recent: htop", "No volumes found"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderSummary() missing %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderSummary_NoFamily(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	snap := &inventory.Snapshot{}
	result := RenderSummary(snap, analyzer.Compute(snap))
	if !strings.Contains(result, "none detected") {
		t.Errorf("RenderSummary() = %q", result)
	}
	for _, c := range Comments(0) {
		if strings.Contains(result, c) {
			t.Errorf("no comment expected without packages, got %q", c)
		}
	}
}

func TestComment(t *testing.T) {
	comments := Comments(2500)
	if !strings.HasPrefix(comments[0], "2,500 packages") {
		t.Errorf("Comments()[0] = %q", comments[0])
	}

	for i := 0; i < 50; i++ {
		got := Comment(2500)
		found := false
		for _, c := range comments {
			if c == got {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Comment() = %q, not one of %v", got, comments)
		}
	}
}

func TestUsageBar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 10},
		{99.9, 19},
		{100, 20},
		{150, 20},
	}

	for _, tt := range tests {
		bar := usageBar(tt.percent)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("usageBar(%v) has %d filled cells, want %d", tt.percent, got, tt.filled)
		}
		if w := runewidth.StringWidth(bar); w != barWidth {
			t.Errorf("usageBar(%v) width = %d, want %d", tt.percent, w, barWidth)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"wide runes", "日本語パッケージ", 9, "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestCell_PadsToDisplayWidth(t *testing.T) {
	for _, s := range []string{"vim", "日本語", "a-very-long-package-name-indeed"} {
		if w := runewidth.StringWidth(cell(s, 12)); w != 12 {
			t.Errorf("cell(%q, 12) width = %d", s, w)
		}
	}
}
