package periodicity

import (
	"github.com/okian/ribophase/internal/domain/significance"
)

// periodFrequency is the codon frequency in cycles per nucleotide.
const periodFrequency = 1.0 / codonLength

// codonWindow averages one boxcar segment per codon.
var codonWindow = WelchOptions{Window: []float64{1, 1, 1}, Overlap: 0}

// Result is the periodicity estimate for one coverage profile.
type Result struct {
	// Score is the coherence with the ideal 1-0-0 signal, in [0, 1].
	Score float64
	// PValue is the null probability of a score at least this large.
	PValue float64
	// ValidCodons counts the positions (three per codon) kept after
	// dropping empty codons.
	ValidCodons int
}

// Codons is the number of retained codons behind the estimate.
func (r Result) Codons() int {
	return r.ValidCodons / codonLength
}

// Coherence scores all three reading frames and returns the best one.
//
// A frame replaces the current best only when its score is strictly
// greater, so ties go to the lowest frame. When no frame scores above zero
// the result has score 0, p-value 1 and the frame-0 ValidCodons.
func Coherence(coverage []int) Result {
	best := Result{Score: 0, PValue: 1, ValidCodons: -1}
	for frame := 0; frame < codonLength; frame++ {
		r := FrameCoherence(coverage, frame)
		if r.Score > best.Score {
			best = r
		}
		if best.ValidCodons == -1 {
			best.ValidCodons = r.ValidCodons
		}
	}
	return best
}

// FrameCoherence scores a single reading frame.
//
// Frames with no retained codons score 0 with p-value 1. A single codon
// carries no null distribution and also gets p-value 1, whatever its score.
func FrameCoherence(coverage []int, frame int) Result {
	signal := NormalizeFrame(coverage, frame)
	length := len(signal)
	if length == 0 {
		return Result{Score: 0, PValue: 1, ValidCodons: 0}
	}
	n := length / codonLength

	sp, err := Welch(signal, idealSignal(n), codonWindow)
	if err != nil {
		return Result{Score: 0, PValue: 1, ValidCodons: length}
	}
	score, ok := sp.At(periodFrequency)
	if !ok {
		return Result{Score: 0, PValue: 1, ValidCodons: length}
	}

	pval := 1.0
	if n >= 2 {
		if p, err := significance.PValue(score, n); err == nil {
			pval = p
		}
	}
	return Result{Score: score, PValue: pval, ValidCodons: length}
}
