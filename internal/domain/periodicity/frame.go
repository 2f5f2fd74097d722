// Package periodicity scores the 3-nucleotide periodicity of ribosome
// profiling coverage.
//
// Coverage is split into codons in each of the three reading frames, every
// codon is scaled to unit DFT amplitude, and the result is compared with the
// ideal 1-0-0 signal by magnitude-squared coherence at 1/3 cycles per
// nucleotide.
package periodicity

import "math"

// codonLength is the period of the translation signal in nucleotides.
const codonLength = 3

// Projection of a codon onto the fundamental of the 3-point DFT.
var (
	cos1 = math.Cos(2 * math.Pi / 3)
	cos2 = math.Cos(4 * math.Pi / 3)
	sin1 = math.Sin(2 * math.Pi / 3)
	sin2 = math.Sin(4 * math.Pi / 3)
)

// NormalizeFrame returns the frame-aligned, unit-normalized codon signal of
// coverage, read from offset frame (0, 1 or 2).
//
// Codons with no reads are dropped: they are missing data, not evidence
// against periodicity. Each kept codon (v0, v1, v2) is divided by the modulus
// of its DFT fundamental; a zero modulus is treated as 1. The result is
// flattened, three values per kept codon. A trailing partial codon is
// ignored.
func NormalizeFrame(coverage []int, frame int) []float64 {
	if frame < 0 || frame >= len(coverage) {
		return nil
	}
	values := coverage[frame:]

	out := make([]float64, 0, len(values)/codonLength*codonLength)
	for i := 0; i+codonLength <= len(values); i += codonLength {
		v0, v1, v2 := float64(values[i]), float64(values[i+1]), float64(values[i+2])
		if v0 == 0 && v1 == 0 && v2 == 0 {
			continue
		}
		re := v0 + v1*cos1 + v2*cos2
		im := v1*sin1 + v2*sin2
		norm := math.Sqrt(re*re + im*im)
		if norm == 0 {
			norm = 1
		}
		out = append(out, v0/norm, v1/norm, v2/norm)
	}
	return out
}

// idealSignal is the perfect 1-0-0 pattern repeated for n codons.
func idealSignal(n int) []float64 {
	s := make([]float64, n*codonLength)
	for i := 0; i < n; i++ {
		s[i*codonLength] = 1
	}
	return s
}
