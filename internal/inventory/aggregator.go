// Package inventory merges every package source and the disk probe into
// immutable snapshots and publishes them to concurrent readers.
package inventory

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/pkgfetch/internal/disk"
	"github.com/blackwell-systems/pkgfetch/internal/log"
	"github.com/blackwell-systems/pkgfetch/internal/pkgmgr"
)

// DefaultRecentLimit is how many recently installed packages each source
// contributes.
const DefaultRecentLimit = 5

// Aggregator runs one full collection across the detected package manager
// family and the disk probe.
type Aggregator struct {
	runner      pkgmgr.Runner
	recentLimit int
	now         func() time.Time
}

// NewAggregator creates an Aggregator that invokes tools through r.
// A non-positive recentLimit selects DefaultRecentLimit.
func NewAggregator(r pkgmgr.Runner, recentLimit int) *Aggregator {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Aggregator{
		runner:      r,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

type sourceResult struct {
	installed   []pkgmgr.Record
	outdated    []pkgmgr.Record
	outdatedErr error
	recent      []pkgmgr.Record
}

// Collect builds a new Snapshot. Tool failures never abort the collection:
// absent tools contribute nothing, failing installed/recent queries are
// logged, and a failing outdated query empties Outdated and sets LastError.
// The only error returned is ctx's, in which case no Snapshot is produced.
func (a *Aggregator) Collect(ctx context.Context) (*Snapshot, error) {
	detection := pkgmgr.Detect(ctx, a.runner)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if detection.Empty() {
		log.Debug("no supported package manager found")
	}

	// one goroutine per adapter keeps each tool's queries in order
	results := make([]sourceResult, len(detection.Adapters))
	var volumes []disk.Volume

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range detection.Adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			results[i] = a.querySource(gctx, adapter)
			return gctx.Err()
		})
	}
	g.Go(func() error {
		volumes = disk.Probe(gctx, a.runner)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := emptySnapshot()
	snap.Family = detection.Family
	snap.TakenAt = a.now()

	outdatedFailed := false
	for _, res := range results {
		snap.Installed = append(snap.Installed, res.installed...)
		snap.Recent = append(snap.Recent, res.recent...)

		if res.outdatedErr != nil {
			outdatedFailed = true
			snap.LastError = res.outdatedErr.Error()
			continue
		}
		snap.Outdated = append(snap.Outdated, res.outdated...)
	}
	if outdatedFailed {
		snap.Outdated = []pkgmgr.Record{}
	}

	if volumes != nil {
		snap.Volumes = volumes
	}

	return snap, nil
}

func (a *Aggregator) querySource(ctx context.Context, adapter pkgmgr.Adapter) sourceResult {
	var res sourceResult

	installed, err := adapter.ListInstalled(ctx)
	if a.report(ctx, adapter, "installed", err) {
		res.installed = installed
	}

	outdated, err := adapter.ListOutdated(ctx)
	switch {
	case err == nil:
		res.outdated = outdated
	case pkgmgr.IsAbsent(err), pkgmgr.IsUnsupported(err), ctx.Err() != nil:
		a.report(ctx, adapter, "outdated", err)
	default:
		res.outdatedErr = err
	}

	recent, err := adapter.ListRecent(ctx, a.recentLimit)
	if a.report(ctx, adapter, "recent", err) {
		res.recent = recent
	}

	return res
}

// report logs a query failure on the diagnostic channel and reports whether
// the query produced usable records.
func (a *Aggregator) report(ctx context.Context, adapter pkgmgr.Adapter, query string, err error) bool {
	switch {
	case err == nil:
		return true
	case pkgmgr.IsUnsupported(err), ctx.Err() != nil:
	case pkgmgr.IsAbsent(err):
		log.Debug("tool not installed", "tool", adapter.Tool(), "query", query)
	default:
		log.Warn("package query failed", "tool", adapter.Tool(), "query", query, "err", err)
	}
	return false
}
