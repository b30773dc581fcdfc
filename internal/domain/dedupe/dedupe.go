// Package dedupe tracks seen delivery keys so the ingest layer can
// reject duplicate deliveries before the rating fold. Processing the
// same ball twice would silently corrupt every rating downstream of
// it, so duplicates are surfaced, never skipped.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen delivery keys for at-most-once folding.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if
	// not. Returns true if key was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key from the seen set.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
// The set is unbounded on purpose: evicting keys would reintroduce the
// exact false negatives the validator exists to prevent, and a full
// league's delivery keys fit comfortably in memory.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	cfg := &config{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(cfg)
	}
	d.seen = make(map[string]struct{}, cfg.initialCapacity)
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes a key from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
