// Package dashboard holds the per-role view models: each dashboard keeps
// in-memory snapshots of server-owned collections, applies client-side
// filter criteria, and resyncs by re-fetching after every successful
// mutation. Snapshots are replaced wholesale on each load, never patched.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc retrieves the current server state of one collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Loader fetches a named collection and holds its latest snapshot. Each
// issued load carries a generation number; a load that completes after a
// newer one has been issued is discarded, so the snapshot always reflects
// the most recently issued load even when completions arrive out of
// order. A failed fetch yields an empty snapshot rather than a partial or
// stale one.
type Loader[T any] struct {
	name  string
	fetch FetchFunc[T]

	mu         sync.Mutex
	generation uint64
	snapshot   []T
}

// NewLoader creates a loader for the named collection
func NewLoader[T any](name string, fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{name: name, fetch: fetch}
}

// Load fetches the collection and, if no newer load was issued in the
// meantime, replaces the snapshot. Returns the fetched rows and whether
// they were committed as the current snapshot. On fetch failure the
// committed snapshot is empty.
func (l *Loader[T]) Load(ctx context.Context) ([]T, bool) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	rows, err := l.fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Collection load failed, substituting empty snapshot",
			"collection", l.name,
			"error", err)
		rows = []T{}
	}
	if rows == nil {
		rows = []T{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// A newer load was issued while this one was in flight.
		return rows, false
	}
	l.snapshot = rows
	return rows, true
}

// Snapshot returns the current snapshot. The slice must be treated as
// read-only; it is replaced, not mutated, on the next load.
func (l *Loader[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snapshot == nil {
		return []T{}
	}
	return l.snapshot
}
