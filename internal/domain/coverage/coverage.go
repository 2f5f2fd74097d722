// Package coverage holds offset-corrected read counts and extracts
// per-ORF coverage profiles from them.
package coverage

import (
	"github.com/okian/ribophase/internal/domain/orf"
)

// Site is a single genomic position.
type Site struct {
	Chrom string
	Pos   int
}

// Alignments maps strand to per-site read counts. It is safe for concurrent
// reads once populated.
type Alignments map[string]map[Site]int

// NewAlignments returns an empty Alignments.
func NewAlignments() Alignments {
	return make(Alignments)
}

// Add increments the count at a site.
func (a Alignments) Add(strand, chrom string, pos, count int) {
	sites, ok := a[strand]
	if !ok {
		sites = make(map[Site]int)
		a[strand] = sites
	}
	sites[Site{Chrom: chrom, Pos: pos}] += count
}

// Count returns the reads at a site, 0 when absent.
func (a Alignments) Count(strand, chrom string, pos int) int {
	return a[strand][Site{Chrom: chrom, Pos: pos}]
}

// Sites returns the number of populated sites across both strands.
func (a Alignments) Sites() int {
	n := 0
	for _, sites := range a {
		n += len(sites)
	}
	return n
}

// ORFCoverage returns the per-nucleotide coverage of o, 5' to 3' on its own
// strand. flank5p and flank3p extra nucleotides are taken upstream and
// downstream of the ORF; on the minus strand they are applied to the
// genomic right and left ends respectively. Missing sites count 0.
func ORFCoverage(o orf.ORF, a Alignments, flank5p, flank3p int) []int {
	if len(o.Intervals) == 0 {
		return nil
	}
	left, right := flank5p, flank3p
	if o.Strand == orf.StrandMinus {
		left, right = right, left
	}

	cov := make([]int, 0, o.Length()+left+right)
	first, last := o.Intervals[0], o.Intervals[len(o.Intervals)-1]
	for pos := first.Start - left; pos < first.Start; pos++ {
		cov = append(cov, a.Count(o.Strand, o.Chrom, pos))
	}
	for _, iv := range o.Intervals {
		for pos := iv.Start; pos <= iv.End; pos++ {
			cov = append(cov, a.Count(o.Strand, o.Chrom, pos))
		}
	}
	for pos := last.End + 1; pos <= last.End+right; pos++ {
		cov = append(cov, a.Count(o.Strand, o.Chrom, pos))
	}

	if o.Strand == orf.StrandMinus {
		for i, j := 0, len(cov)-1; i < j; i, j = i+1, j-1 {
			cov[i], cov[j] = cov[j], cov[i]
		}
	}
	return cov
}

// MergeReadLengths combines per-read-length alignments into P-site
// coverage. Each length is shifted by its offset: downstream on the plus
// strand, upstream on the minus strand. Lengths without an offset are
// dropped.
func MergeReadLengths(byLength map[int]Alignments, offsets map[int]int) Alignments {
	merged := NewAlignments()
	for length, offset := range offsets {
		for strand, sites := range byLength[length] {
			shift := offset
			if strand == orf.StrandMinus {
				shift = -offset
			}
			for site, count := range sites {
				merged.Add(strand, site.Chrom, site.Pos+shift, count)
			}
		}
	}
	return merged
}

// CollapseToCodons sums every complete codon of cov. A trailing partial
// codon is ignored.
func CollapseToCodons(cov []int) []int {
	out := make([]int, len(cov)/3)
	for i := range out {
		out[i] = cov[3*i] + cov[3*i+1] + cov[3*i+2]
	}
	return out
}
