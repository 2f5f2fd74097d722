// Package model contains domain models passed between layers.
package model

import "github.com/okian/ribophase/internal/domain/orf"

// Job is one ORF queued for scoring.
type Job struct {
	Seq      int64   // index order, used to restore output order
	ORF      orf.ORF // candidate being scored
	Coverage []int   // per-nucleotide coverage, 5' to 3'
}
