package significance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// p3Nodes is the Gauss-Legendre order used for each IntegralP3 evaluation.
const p3Nodes = 256

// Form selects how PhaseVectorPDF evaluates walks of four or more vectors.
type Form int

const (
	// FormNonCentral approximates the density with the scaled non-central
	// chi-square used by PValue. This is the default.
	FormNonCentral Form = iota
	// FormBessel uses the Bessel-weighted exponential closed form. It is
	// numerically unstable for large x and kept for diagnostics only.
	FormBessel
)

// PhaseVectorPDF returns the density of |sum of k uniform-phase unit
// vectors|^2 at every point of x.
//
//	k = 1   identically 0 (the squared length is always 1)
//	k = 2   1/(pi*sqrt(x(4-x))) on [0,4]
//	k = 3   IntegralP3(x)/pi^2 on [0,9]
//	k >= 4  2/(k-1) * ncx2(2x/(k-1); 2, 2/(k-1)), or the Bessel form
//
// The k=2 density diverges at both ends of its support and returns +Inf
// there.
func PhaseVectorPDF(x []float64, k int, form Form) ([]float64, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidWalkLength, k)
	}

	p := make([]float64, len(x))
	switch {
	case k == 1:
		// all zero
	case k == 2:
		for i, v := range x {
			if v < 0 || v > 4 {
				continue
			}
			p[i] = 1 / (math.Pi * math.Sqrt(v*(4-v)))
		}
	case k == 3:
		for i, v := range x {
			p[i] = IntegralP3(v) / (math.Pi * math.Pi)
		}
	case form == FormBessel:
		scale := float64(k - 1)
		for i, v := range x {
			if v < 0 {
				continue
			}
			p[i] = math.Exp(-(v+1)/scale) * math.J0(2*math.Sqrt(v)/scale) / scale
		}
	default:
		scale := float64(k - 1)
		dist := NonCentralChiSquared{K: 2, Lambda: 2 / scale}
		for i, v := range x {
			p[i] = 2 * dist.Prob(2*v/scale) / scale
		}
	}
	return p, nil
}

// IntegralP3 integrates the three-vector kernel
//
//	1/sqrt((4u - u^2) * (4u - (u - v3 + 1)^2))
//
// over u in [(1-sqrt v3)^2, min(4, (1+sqrt v3)^2)]. It is zero outside
// [0,9].
func IntegralP3(v3 float64) float64 {
	if math.IsNaN(v3) || v3 < 0 || v3 > 9 {
		return 0
	}

	s := math.Sqrt(v3)
	lo := (1 - s) * (1 - s)
	root := (1 + s) * (1 + s)
	hi := math.Min(4, root)
	if hi <= lo {
		return 0
	}

	kernel := func(u float64) float64 {
		// 4u - (u-v3+1)^2 factors as (u - lo)(root - u); the product form
		// keeps precision next to the roots.
		term1 := u * (4 - u)
		term2 := (u - lo) * (root - u)
		prod := term1 * term2
		if prod <= 0 {
			return 0
		}
		return 1 / math.Sqrt(prod)
	}

	return quad.Fixed(cosineSubstitution(kernel, lo, hi), 0, math.Pi, p3Nodes, nil, 0)
}

// cosineSubstitution maps f on [a,b] to [0,pi] via u = a + (b-a)(1-cos t)/2.
// The Jacobian vanishes linearly in t while u-a grows quadratically, which
// cancels inverse square root singularities at both ends.
func cosineSubstitution(f func(float64) float64, a, b float64) func(float64) float64 {
	half := (b - a) / 2
	return func(t float64) float64 {
		u := a + half*(1-math.Cos(t))
		return f(u) * half * math.Sin(t)
	}
}
