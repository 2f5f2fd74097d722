// Package dedupe tracks ORF IDs already seen in an index.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen ORF IDs so repeated index entries can be flagged.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size is the number of distinct IDs recorded.
	Size() int64

	// Duplicates counts SeenAndRecord calls that found an existing ID.
	Duplicates() int64
}

type inMemoryDeduper struct {
	mu         sync.Mutex
	seen       map[string]struct{}
	expected   int
	duplicates atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.expected)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		d.duplicates.Add(1)
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

func (d *inMemoryDeduper) Duplicates() int64 {
	return d.duplicates.Load()
}
