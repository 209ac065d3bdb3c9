// Package dedupe tracks report tokens for at-most-once match application.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen report tokens so a resubmitted report is applied
// at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether token was seen and records it
	// if not. Returns true if token was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, token string) bool

	// Unrecord forgets a token so the report may be retried. Use it only
	// when a token was recorded but the report failed to apply.
	Unrecord(ctx context.Context, token string)

	Size() int64
}

// entry ties a queued token to the sequence it was recorded under, so a
// token that was unrecorded and later re-recorded is not evicted early by
// its stale queue slot.
type entry struct {
	token string
	seq   uint64
}

// inMemoryDeduper remembers tokens in a map with a FIFO queue driving
// eviction. With maxSize > 0 the oldest tokens are dropped once the bound
// is reached; with maxSize <= 0 nothing is ever evicted.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64
	order   []entry
	maxSize int
	nextSeq uint64
}

// NewInMemoryDeduper creates an in-memory deduper. The default bound keeps
// the most recent 50000 tokens.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
		seen:    make(map[string]uint64),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[token]; exists {
		return true
	}

	if d.maxSize > 0 {
		d.evictToFit()
		d.nextSeq++
		d.order = append(d.order, entry{token: token, seq: d.nextSeq})
		d.seen[token] = d.nextSeq
	} else {
		d.seen[token] = 0
	}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The queue slot is left behind as a stale entry; eviction skips it
	// because its sequence no longer matches the map.
	delete(d.seen, token)
}

// evictToFit drops queue slots oldest-first until one slot is free,
// removing still-live tokens from the map as they go. Must be called with
// d.mu held.
func (d *inMemoryDeduper) evictToFit() {
	for len(d.order) >= d.maxSize {
		head := d.order[0]
		d.order = d.order[1:]
		if seq, ok := d.seen[head.token]; ok && seq == head.seq {
			delete(d.seen, head.token)
		}
	}
}

// Size returns the number of tokens currently tracked.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
