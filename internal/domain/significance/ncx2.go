// Package significance turns periodicity scores into p-values.
//
// The null model for a magnitude-squared coherence estimate built from N
// independent codons is a scaled non-central chi-square with two degrees of
// freedom. The package also carries the exact density of the squared length
// of a sum of k uniform-phase unit vectors, which the chi-square model
// approximates for k >= 4 and which is used to validate it.
package significance

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// maxSeriesTerms bounds the Poisson mixture. Lambda is at most 2 on the
	// scoring path, where the series converges in a few dozen terms.
	maxSeriesTerms = 2000
	// seriesTolerance is the Poisson mass left unsummed when the series stops.
	seriesTolerance = 1e-16
)

// NonCentralChiSquared is the non-central chi-square distribution with K
// degrees of freedom and non-centrality Lambda. K must be positive and
// Lambda non-negative.
//
// Every method evaluates the Poisson(Lambda/2) mixture of central chi-square
// terms with K+2j degrees of freedom.
type NonCentralChiSquared struct {
	K      float64
	Lambda float64
}

// Prob returns the probability density at x.
func (n NonCentralChiSquared) Prob(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	return n.mixture(func(k float64) float64 {
		return centralProb(k, x)
	})
}

// CDF returns P(X <= x).
func (n NonCentralChiSquared) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return clamp01(n.mixture(func(k float64) float64 {
		return distuv.ChiSquared{K: k}.CDF(x)
	}))
}

// Survival returns P(X > x), summed directly rather than as 1-CDF so that
// small tail probabilities keep their precision.
func (n NonCentralChiSquared) Survival(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return clamp01(n.mixture(func(k float64) float64 {
		return distuv.ChiSquared{K: k}.Survival(x)
	}))
}

// mixture sums Poisson(Lambda/2) weights against term(K+2j).
func (n NonCentralChiSquared) mixture(term func(k float64) float64) float64 {
	if n.Lambda == 0 {
		return term(n.K)
	}

	half := n.Lambda / 2
	weights := distuv.Poisson{Lambda: half}

	var sum, mass float64
	for j := 0; j < maxSeriesTerms; j++ {
		w := weights.Prob(float64(j))
		mass += w
		if w > 0 {
			sum += w * term(n.K+2*float64(j))
		}
		// Only stop on the falling side of the Poisson mode.
		if float64(j) >= half && 1-mass < seriesTolerance {
			break
		}
	}
	return sum
}

// centralProb is the central chi-square density, with the x=0 limit spelled
// out because the log-space form yields NaN there for k=2.
func centralProb(k, x float64) float64 {
	if x == 0 {
		switch {
		case k == 2:
			return 0.5
		case k > 2:
			return 0
		default:
			return math.Inf(1)
		}
	}
	return distuv.ChiSquared{K: k}.Prob(x)
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
