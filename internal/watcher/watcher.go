package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/pkgfetch/internal/log"
)

// DefaultPaths are the package database directories of the supported
// package managers. Paths that do not exist on the host are skipped.
var DefaultPaths = []string{
	"/var/lib/pacman/local",
	"/var/lib/dpkg",
	"/var/lib/rpm",
	"/var/lib/flatpak",
}

// RefreshFunc performs one refresh. ctx is cancelled when the Watcher stops.
type RefreshFunc func(ctx context.Context) error

// Watcher triggers refreshes on package database changes and on an interval.
type Watcher struct {
	paths    []string
	interval time.Duration
	debounce time.Duration
	refresh  RefreshFunc

	fs      *fsnotify.Watcher
	watched []string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Watcher. It does not touch the filesystem until Start.
func New(paths []string, interval, debounce time.Duration, refresh RefreshFunc) (*Watcher, error) {
	if refresh == nil {
		return nil, errors.New("refresh func cannot be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if debounce < 0 {
		return nil, fmt.Errorf("debounce must not be negative, got %s", debounce)
	}
	return &Watcher{
		paths:    paths,
		interval: interval,
		debounce: debounce,
		refresh:  refresh,
	}, nil
}

// Start subscribes to every existing path and begins the event loop. The
// loop runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	for _, p := range w.paths {
		if _, err := os.Stat(p); err != nil {
			log.Debug("skipping package database path", "path", p, "err", err)
			continue
		}
		if err := fs.Add(p); err != nil {
			log.Warn("cannot watch package database", "path", p, "err", err)
			continue
		}
		w.watched = append(w.watched, p)
	}
	if len(w.watched) == 0 {
		log.Info("no package database to watch, refreshing on interval only", "interval", w.interval)
	}

	w.fs = fs
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// Watched returns the paths Start subscribed to.
func (w *Watcher) Watched() []string {
	return append([]string(nil), w.watched...)
}

// Stop cancels any in-flight refresh and waits for the loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	w.wg.Wait()
	return w.fs.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	events, errs := w.fs.Events, w.fs.Errors
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("package database changed", "path", ev.Name, "op", ev.Op.String())
			timer = resetTimer(timer, w.debounce)
			debounce = timer.C

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("watch error", "err", err)

		case <-debounce:
			debounce = nil
			w.run(ctx, "change")

		case <-ticker.C:
			w.run(ctx, "interval")
		}
	}
}

func (w *Watcher) run(ctx context.Context, reason string) {
	log.Debug("refreshing", "reason", reason)
	if err := w.refresh(ctx); err != nil && ctx.Err() == nil {
		log.Warn("refresh failed", "reason", reason, "err", err)
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// resetTimer restarts t for d, creating it on first use.
func resetTimer(t *time.Timer, d time.Duration) *time.Timer {
	if t == nil {
		return time.NewTimer(d)
	}
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
	return t
}
