// Package watcher re-runs inventory refreshes when a package database changes
// on disk and on a fixed interval.
//
// Package managers rewrite their database directories on every install,
// removal or upgrade. The Watcher subscribes to those directories through
// fsnotify, coalesces bursts of events with a debounce timer and calls the
// refresh function once per burst. A ticker covers changes fsnotify cannot
// see, such as a new upstream release showing up as outdated.
//
// Example usage:
//
//	w, err := watcher.New(watcher.DefaultPaths, 5*time.Minute, 2*time.Second,
//		func(ctx context.Context) error {
//			_, err := svc.Refresh(ctx)
//			return err
//		})
//	if err != nil {
//		return err
//	}
//	if err := w.Start(ctx); err != nil {
//		return err
//	}
//	defer w.Stop()
package watcher
