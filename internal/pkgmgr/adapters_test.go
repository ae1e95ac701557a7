package pkgmgr_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr/pkgmgrtest"
)

const pacmanEightLines = `acl 2.3.2-1
bash 5.2.026-2
coreutils 9.5-1
glibc 2.39+r52-1
htop 3.3.0-3
linux 6.9.7.arch1-1
vim 9.1.0-1
zsh 5.9-5
`

func TestLineAdapter_ListInstalled(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func(pkgmgr.Runner) pkgmgr.Adapter
		cmdline string
		output  string
		source  pkgmgr.Source
		want    []string
	}{
		{
			name:    "pacman",
			newFn:   pkgmgr.NewPacman,
			cmdline: "pacman -Q",
			output:  "bash 5.2.026-2\n\nvim 9.1.0-1\n",
			source:  pkgmgr.SourceNative,
			want:    []string{"bash 5.2.026-2", "vim 9.1.0-1"},
		},
		{
			name:    "aur helper",
			newFn:   func(r pkgmgr.Runner) pkgmgr.Adapter { return pkgmgr.NewAURHelper(r, "") },
			cmdline: "yay -Qm",
			output:  "visual-studio-code-bin 1.90.2-1\n",
			source:  pkgmgr.SourceCommunity,
			want:    []string{"visual-studio-code-bin 1.90.2-1"},
		},
		{
			name:    "dpkg",
			newFn:   pkgmgr.NewDpkg,
			cmdline: "dpkg -l",
			output:  "ii  vim  2:9.1.0016-1  amd64  Vi IMproved\n   \nii  zsh  5.9-6  amd64  shell\n",
			source:  pkgmgr.SourceDebian,
			want:    []string{"ii  vim  2:9.1.0016-1  amd64  Vi IMproved", "ii  zsh  5.9-6  amd64  shell"},
		},
		{
			name:    "flatpak",
			newFn:   pkgmgr.NewFlatpak,
			cmdline: "flatpak list",
			output:  "Firefox\torg.mozilla.firefox\t128.0\tstable\tsystem\n",
			source:  pkgmgr.SourceFlatpak,
			want:    []string{"Firefox\torg.mozilla.firefox\t128.0\tstable\tsystem"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pkgmgrtest.NewRunner().Set(tt.cmdline, tt.output)
			a := tt.newFn(r)

			records, err := a.ListInstalled(context.Background())
			if err != nil {
				t.Fatalf("ListInstalled() error: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("got %d records, want %d: %+v", len(records), len(tt.want), records)
			}
			for i, rec := range records {
				if rec.Name != tt.want[i] {
					t.Errorf("record %d name = %q, want %q", i, rec.Name, tt.want[i])
				}
				if rec.Version != "" {
					t.Errorf("record %d version = %q, want empty", i, rec.Version)
				}
				if rec.Source != tt.source {
					t.Errorf("record %d source = %q, want %q", i, rec.Source, tt.source)
				}
			}
		})
	}
}

func TestPacman_ListRecent(t *testing.T) {
	r := pkgmgrtest.NewRunner().Set("pacman -Q", pacmanEightLines)
	a := pkgmgr.NewPacman(r)

	records, err := a.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}

	want := []string{
		"zsh 5.9-5",
		"vim 9.1.0-1",
		"linux 6.9.7.arch1-1",
		"htop 3.3.0-3",
		"glibc 2.39+r52-1",
	}
	var got []string
	for _, rec := range records {
		got = append(got, rec.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListRecent() = %v, want %v", got, want)
	}
}

func TestPacman_ListRecentLimits(t *testing.T) {
	r := pkgmgrtest.NewRunner().Set("pacman -Q", "a 1\nb 2\n")
	a := pkgmgr.NewPacman(r)

	records, err := a.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 2 || records[0].Name != "b 2" {
		t.Errorf("short listing: got %+v", records)
	}

	records, err = a.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent(0) error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("limit 0: got %d records, want 0", len(records))
	}
}

func TestPacman_ListOutdatedSyncsFirst(t *testing.T) {
	r := pkgmgrtest.NewRunner().
		Fail("pacman -Sy", 1, "error: you cannot perform this operation unless you are root.").
		Set("pacman -Qu", "linux 6.9.7.arch1-1 -> 6.9.8.arch1-1\n")
	a := pkgmgr.NewPacman(r)

	records, err := a.ListOutdated(context.Background())
	if err != nil {
		t.Fatalf("ListOutdated() error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "linux 6.9.7.arch1-1 -> 6.9.8.arch1-1" {
		t.Errorf("unexpected records: %+v", records)
	}

	want := []string{"pacman -Sy", "pacman -Qu"}
	if got := r.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestPacman_ListOutdatedFailure(t *testing.T) {
	r := pkgmgrtest.NewRunner().
		Set("pacman -Sy", "").
		Fail("pacman -Qu", 1, "error: failed to init transaction")
	a := pkgmgr.NewPacman(r)

	_, err := a.ListOutdated(context.Background())
	var cmdErr *pkgmgr.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", cmdErr.ExitCode)
	}
}

func TestAURHelper_Absent(t *testing.T) {
	a := pkgmgr.NewAURHelper(pkgmgrtest.NewRunner(), "yay")

	if _, err := a.ListInstalled(context.Background()); !pkgmgr.IsAbsent(err) {
		t.Errorf("ListInstalled() error = %v, want absent", err)
	}
	if _, err := a.ListOutdated(context.Background()); !pkgmgr.IsAbsent(err) {
		t.Errorf("ListOutdated() error = %v, want absent", err)
	}
}

func TestUnsupportedQueries(t *testing.T) {
	r := pkgmgrtest.NewRunner()
	for _, a := range []pkgmgr.Adapter{pkgmgr.NewDpkg(r), pkgmgr.NewFlatpak(r)} {
		if _, err := a.ListOutdated(context.Background()); !pkgmgr.IsUnsupported(err) {
			t.Errorf("%s ListOutdated() error = %v, want unsupported", a.Tool(), err)
		}
		if _, err := a.ListRecent(context.Background(), 5); !pkgmgr.IsUnsupported(err) {
			t.Errorf("%s ListRecent() error = %v, want unsupported", a.Tool(), err)
		}
	}
	if len(r.Calls()) != 0 {
		t.Errorf("unsupported queries should not run anything, ran %v", r.Calls())
	}
}

func TestRPM_ListOutdated(t *testing.T) {
	r := pkgmgrtest.NewRunner().Set("dnf list upgrades", "header\n pkgA 1.2\nLast metadata ...\npkgB 3.4\n")
	a := pkgmgr.NewRPM(r)

	records, err := a.ListOutdated(context.Background())
	if err != nil {
		t.Fatalf("ListOutdated() error: %v", err)
	}

	want := []pkgmgr.Record{
		{Name: "pkgA", Version: "1.2", Source: pkgmgr.SourceRPM},
		{Name: "pkgB", Version: "3.4", Source: pkgmgr.SourceRPM},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("ListOutdated() = %+v, want %+v", records, want)
	}
}

func TestRPM_ListOutdatedSkipsShortLines(t *testing.T) {
	output := `Last metadata expiration check: 0:12:01 ago on Mon 01 Jul 2024.
Available Upgrades
kernel.x86_64                 6.9.7-200.fc40          updates
orphan
Last metadata expiration check: again

vim-enhanced.x86_64           2:9.1.506-1.fc40        updates
`
	r := pkgmgrtest.NewRunner().Set("dnf list upgrades", output)

	records, err := pkgmgr.NewRPM(r).ListOutdated(context.Background())
	if err != nil {
		t.Fatalf("ListOutdated() error: %v", err)
	}

	// "Available Upgrades" has two tokens and is kept, as the format dictates
	want := []string{"Available", "kernel.x86_64", "vim-enhanced.x86_64"}
	var got []string
	for _, rec := range records {
		got = append(got, rec.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestRPM_ListRecent(t *testing.T) {
	output := `ID     | Command line             | Date and time    | Action(s)      | Altered
    12 | install htop             | 2024-07-01 10:02 | Install        |    1
    11 | -y install --nogpg tmux  | 2024-06-30 09:00 | Install        |    2
    10 | upgrade                  | 2024-06-29 08:00 | Upgrade        |   40
     9 | install                  | 2024-06-28 08:00 | Install        |    1
     8 | x
`
	r := pkgmgrtest.NewRunner().Set("dnf history list installed --limit=5", output)

	records, err := pkgmgr.NewRPM(r).ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}

	// the third install line has only the action word and the table
	// separator, so the separator is the first eligible token
	want := []string{"htop", "tmux", "|"}
	var got []string
	for _, rec := range records {
		got = append(got, rec.Name)
		if rec.Source != pkgmgr.SourceRPM {
			t.Errorf("source = %q, want rpm", rec.Source)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestRPM_ListRecentDefaultsToUnknown(t *testing.T) {
	output := "ID Command\n1 a install -y\n"
	r := pkgmgrtest.NewRunner().Set("dnf history list installed --limit=5", output)

	records, err := pkgmgr.NewRPM(r).ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "unknown" {
		t.Errorf("got %+v, want a single unknown record", records)
	}
}

func TestRPM_ListInstalled(t *testing.T) {
	r := pkgmgrtest.NewRunner().Set("rpm -qa", "bash-5.2.26-3.fc40.x86_64\nvim-enhanced-9.1.506-1.fc40.x86_64\n")

	records, err := pkgmgr.NewRPM(r).ListInstalled(context.Background())
	if err != nil {
		t.Fatalf("ListInstalled() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "bash-5.2.26-3.fc40.x86_64" || records[0].Version != "" {
		t.Errorf("unexpected record %+v", records[0])
	}
}
