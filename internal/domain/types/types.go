// Package types contains common types used across the application
package types

import "github.com/okian/ribophase/internal/domain/orf"

// Status is the translation call for an ORF.
type Status string

const (
	StatusTranslating    Status = "translating"
	StatusNontranslating Status = "nontranslating"
)

// Translating reports whether s is the translating call.
func (s Status) Translating() bool {
	return s == StatusTranslating
}

// Record is one scored ORF, in the shape of an output row.
type Record struct {
	Seq              int64 // position in the index, 0-based
	ORF              orf.ORF
	Status           Status
	PhaseScore       float64
	PValue           float64
	ReadCount        int
	Length           int
	ValidCodons      int // positions of retained codons, three per codon
	ValidCodonsRatio float64
	ReadDensity      float64
	Profile          []int
	// Reported is false for nontranslating rows when not reporting all.
	Reported bool
}
