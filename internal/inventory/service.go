package inventory

import (
	"context"
	"sync"
	"sync/atomic"
)

// Collector produces a fresh Snapshot. *Aggregator is the production
// implementation.
type Collector interface {
	Collect(ctx context.Context) (*Snapshot, error)
}

// Service holds the current Snapshot. Readers call Snapshot without
// blocking; refreshes are serialized and swap the whole Snapshot at once, so
// a reader sees either the previous or the next one in full.
type Service struct {
	collector  Collector
	current    atomic.Pointer[Snapshot]
	mu         sync.Mutex
	generation uint64
}

// NewService returns a Service holding an empty Snapshot until the first
// Refresh.
func NewService(c Collector) *Service {
	s := &Service{collector: c}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the latest published Snapshot. Callers must not modify it.
func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

// Refresh collects a new Snapshot, publishes it and returns it. If the
// collection is abandoned (ctx cancelled) the previous Snapshot stays
// published and is returned together with the error.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.collector.Collect(ctx)
	if err != nil {
		return s.current.Load(), err
	}

	s.generation++
	snap.Generation = s.generation
	s.current.Store(snap)
	return snap, nil
}
