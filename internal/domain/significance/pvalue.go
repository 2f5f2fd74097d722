package significance

import (
	"fmt"
	"math"
)

// PValue returns the probability of a coherence score at least as large as
// score under the no-periodicity null, given n retained codons.
//
// The statistic 2*n^2*score/(n-1) is referred to a non-central chi-square
// with 2 degrees of freedom and non-centrality 2/(n-1). n must be at least
// 2; smaller values return ErrInvalidSampleSize and a NaN p-value.
func PValue(score float64, n int) (float64, error) {
	if n < 2 {
		return math.NaN(), fmt.Errorf("%w: need at least 2 codons, got %d", ErrInvalidSampleSize, n)
	}

	df := 2.0
	nc := 2.0 / float64(n-1)
	x := 2 * float64(n) * float64(n) * score / float64(n-1)

	return NonCentralChiSquared{K: df, Lambda: nc}.Survival(x), nil
}
