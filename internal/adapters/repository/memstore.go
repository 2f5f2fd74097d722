package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/ribophase/internal/domain/types"
	"github.com/okian/ribophase/pkg/metrics"
)

// MemoryStore implements Store with a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]types.Record

	expected               int
	dropUnreportedProfiles bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.records = make(map[int64]types.Record, s.expected)
	return s
}

// Put stores rec under its sequence number. Profiles of unreported records
// are dropped first when WithoutUnreportedProfiles is set.
func (s *MemoryStore) Put(_ context.Context, rec types.Record) error {
	if s.dropUnreportedProfiles && !rec.Reported {
		rec.Profile = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Seq]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateSeq, rec.Seq)
	}
	s.records[rec.Seq] = rec
	metrics.UpdateStoredRecords(len(s.records))
	return nil
}

// Get returns the record for seq, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, seq int64) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[seq]
	if !ok {
		return types.Record{}, fmt.Errorf("%w: %d", ErrNotFound, seq)
	}
	return rec, nil
}

// Ordered returns a copy of every record sorted by sequence number.
func (s *MemoryStore) Ordered(_ context.Context) []types.Record {
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// TopN returns the n highest phase scores, ties broken by sequence number.
// n must be positive.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]types.Record, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if out[i].PhaseScore != out[j].PhaseScore {
			return out[i].PhaseScore > out[j].PhaseScore
		}
		return out[i].Seq < out[j].Seq
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) snapshot() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}
