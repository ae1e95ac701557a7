package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/pkgfetch/internal/inventory"
	"github.com/blackwell-systems/pkgfetch/internal/output"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// newRunner builds the tool runner for a command. Tests replace it with a
// scripted runner.
var newRunner = func(timeout time.Duration) pkgmgr.Runner {
	return pkgmgr.NewExecRunner(timeout)
}

func newService() *inventory.Service {
	runner := newRunner(settings.CommandTimeout)
	return inventory.NewService(inventory.NewAggregator(runner, settings.RecentLimit))
}

// collect runs one refresh with a spinner on interactive terminals.
func collect(cmd *cobra.Command) (*inventory.Snapshot, error) {
	svc := newService()

	spinner := output.NewSpinner("Collecting packages").WithElapsed()
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()
	snap, err := svc.Refresh(cmd.Context())
	spinner.Stop()

	if err != nil {
		return nil, fmt.Errorf("refresh abandoned: %w", err)
	}
	return snap, nil
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format %q (want text, json or yaml)", format)
}

// render writes v in the selected format, or text() for the text format.
func render(cmd *cobra.Command, v interface{}, text func() string) error {
	out := cmd.OutOrStdout()

	switch flagOutput {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(out, text())
		return err
	}
}
