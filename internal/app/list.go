package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/output"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

const (
	listInstalled = "installed"
	listOutdated  = "outdated"
	listRecent    = "recent"
)

var listSource string

var listCmd = &cobra.Command{
	Use:   "list [installed|outdated|recent]",
	Short: "List installed, outdated or recently added packages",
	Long: `List one section of the package inventory. Defaults to installed.

Records keep the raw line the tool printed; the Package and Version columns
of the text table are derived from it for display only.`,
	Example: `  # Everything installed
  pkgfetch list

  # Only AUR packages
  pkgfetch list --source aur

  # Outdated packages as YAML
  pkgfetch list outdated -o yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{listInstalled, listOutdated, listRecent},
	RunE:      runList,
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "only show packages from this source ("+sourceNames()+")")

	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	section := listInstalled
	if len(args) == 1 {
		section = args[0]
	}
	if err := validateSection(section); err != nil {
		return err
	}
	if err := validateSource(listSource); err != nil {
		return err
	}

	snap, err := collect(cmd)
	if err != nil {
		return err
	}

	records := filterSource(selectSection(snap, section), pkgmgr.Source(listSource))

	return render(cmd, records, func() string {
		text := output.RenderPackageTable(records)
		if section == listOutdated && snap.HasError() {
			text += "\n⚠ " + snap.LastError + "\n"
		}
		return text
	})
}

func validateSection(section string) error {
	switch section {
	case listInstalled, listOutdated, listRecent:
		return nil
	}
	return fmt.Errorf("unknown list %q (want installed, outdated or recent)", section)
}

func selectSection(snap *inventory.Snapshot, section string) []pkgmgr.Record {
	switch section {
	case listOutdated:
		return snap.Outdated
	case listRecent:
		return snap.Recent
	default:
		return snap.Installed
	}
}

func validateSource(source string) error {
	if source == "" {
		return nil
	}
	for _, s := range pkgmgr.Sources {
		if string(s) == source {
			return nil
		}
	}
	return fmt.Errorf("unknown source %q (want one of %s)", source, sourceNames())
}

// filterSource keeps records from src, or all of them when src is empty.
func filterSource(records []pkgmgr.Record, src pkgmgr.Source) []pkgmgr.Record {
	filtered := make([]pkgmgr.Record, 0, len(records))
	for _, rec := range records {
		if src == "" || rec.Source == src {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func sourceNames() string {
	names := make([]string, len(pkgmgr.Sources))
	for i, s := range pkgmgr.Sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
