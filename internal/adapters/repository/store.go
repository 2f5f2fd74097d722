// Package repository holds scored records until they are written in index
// order.
package repository

import (
	"context"

	"github.com/okian/ribophase/internal/domain/types"
)

// Store provides read/write access to scored records.
type Store interface {
	// Put stores a record under its sequence number. A sequence number may
	// only be stored once.
	Put(ctx context.Context, rec types.Record) error

	// Get returns the record for a sequence number, or ErrNotFound.
	Get(ctx context.Context, seq int64) (types.Record, error)

	// Ordered returns every record sorted by sequence number.
	Ordered(ctx context.Context) []types.Record

	// TopN returns the n highest phase scores, ties broken by sequence.
	TopN(ctx context.Context, n int) ([]types.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
