package significance_test

import (
	"math"
	"testing"

	"github.com/okian/ribophase/internal/domain/significance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestPValue_ZeroScore(t *testing.T) {
	for _, n := range []int{2, 3, 10, 100, 10_000} {
		p, err := significance.PValue(0, n)
		require.NoError(t, err)
		assert.Equal(t, 1.0, p, "n=%d", n)
	}
}

func TestPValue_InvalidSampleSize(t *testing.T) {
	for _, n := range []int{1, 0, -4} {
		p, err := significance.PValue(0.5, n)
		require.ErrorIs(t, err, significance.ErrInvalidSampleSize)
		assert.True(t, math.IsNaN(p))
	}
}

func TestPValue_MonotoneInScore(t *testing.T) {
	for _, n := range []int{2, 3, 7, 50, 400} {
		prev := 1.0
		for i := 0; i <= 100; i++ {
			score := float64(i) / 100
			p, err := significance.PValue(score, n)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			assert.LessOrEqual(t, p, prev+1e-15, "n=%d score=%v", n, score)
			prev = p
		}
	}
}

func TestPValue_MoreCodonsMoreSignificant(t *testing.T) {
	prev := 1.0
	for _, n := range []int{2, 3, 5, 10, 20} {
		p, err := significance.PValue(0.95, n)
		require.NoError(t, err)
		assert.Less(t, p, prev, "n=%d", n)
		prev = p
	}
}

func TestPValue_KnownValue(t *testing.T) {
	// n=3, score=1: x = 2*9/2 = 9, nc = 1.
	// sf = sum_j e^-0.5 0.5^j/j! * Q(1+j, 4.5)
	want := 0.0
	for j := 0; j < 60; j++ {
		w := math.Exp(-0.5) * math.Pow(0.5, float64(j)) / math.Gamma(float64(j)+1)
		// Q(m, y) for integer m = e^-y sum_{i<m} y^i/i!
		q := 0.0
		for i := 0; i <= j; i++ {
			q += math.Pow(4.5, float64(i)) / math.Gamma(float64(i)+1)
		}
		want += w * math.Exp(-4.5) * q
	}

	got, err := significance.PValue(1, 3)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}

func TestNonCentralChiSquared_CentralLimit(t *testing.T) {
	d := significance.NonCentralChiSquared{K: 2, Lambda: 0}
	for _, x := range []float64{0.1, 1, 3, 10} {
		assert.InDelta(t, math.Exp(-x/2), d.Survival(x), 1e-14)
		assert.InDelta(t, 0.5*math.Exp(-x/2), d.Prob(x), 1e-14)
	}
}

func TestNonCentralChiSquared_Consistency(t *testing.T) {
	d := significance.NonCentralChiSquared{K: 2, Lambda: 0.7}

	assert.Equal(t, 0.0, d.CDF(0))
	assert.Equal(t, 1.0, d.Survival(0))
	assert.Equal(t, 0.0, d.Prob(-1))
	assert.InDelta(t, 0.5*math.Exp(-0.35), d.Prob(0), 1e-14)

	for _, x := range []float64{0.2, 1.5, 4, 12} {
		assert.InDelta(t, 1.0, d.CDF(x)+d.Survival(x), 1e-12, "x=%v", x)
	}

	// The density integrates to the CDF.
	mass := quad.Fixed(d.Prob, 0, 6, 200, nil, 0)
	assert.InDelta(t, d.CDF(6), mass, 1e-9)
}

func TestIntegralP3_Support(t *testing.T) {
	for _, v := range []float64{-1, -1e-9, 9.000001, 12, math.NaN()} {
		assert.Equal(t, 0.0, significance.IntegralP3(v), "v3=%v", v)
	}
	for _, v := range []float64{0.05, 0.5, 2, 4, 6.5, 8.9} {
		got := significance.IntegralP3(v)
		assert.False(t, math.IsInf(got, 0) || math.IsNaN(got), "v3=%v", v)
		assert.Greater(t, got, 0.0, "v3=%v", v)
	}
}

func TestPhaseVectorPDF_SmallWalks(t *testing.T) {
	x := []float64{-1, 0.5, 2, 3.5, 5}

	p, err := significance.PhaseVectorPDF(x, 1, significance.FormNonCentral)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, p)

	p, err = significance.PhaseVectorPDF(x, 2, significance.FormNonCentral)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p[0])
	assert.InDelta(t, 1/(math.Pi*math.Sqrt(0.5*3.5)), p[1], 1e-15)
	assert.InDelta(t, 1/(2*math.Pi), p[2], 1e-15)
	assert.Equal(t, p[1], p[3], "k=2 density is symmetric about 2")
	assert.Equal(t, 0.0, p[4])

	_, err = significance.PhaseVectorPDF(x, 0, significance.FormNonCentral)
	require.ErrorIs(t, err, significance.ErrInvalidWalkLength)
}

func TestPhaseVectorPDF_TwoVectorsIntegratesToOne(t *testing.T) {
	density := func(v float64) float64 {
		p, err := significance.PhaseVectorPDF([]float64{v}, 2, significance.FormNonCentral)
		require.NoError(t, err)
		return p[0]
	}
	// x = 2 - 2cos(t) removes the endpoint singularities.
	mass := quad.Fixed(func(t float64) float64 {
		return density(2-2*math.Cos(t)) * 2 * math.Sin(t)
	}, 0, math.Pi, 64, nil, 0)
	assert.InDelta(t, 1.0, mass, 1e-9)
}

func TestPhaseVectorPDF_ThreeVectorsIntegratesToOne(t *testing.T) {
	density := func(v float64) float64 {
		p, err := significance.PhaseVectorPDF([]float64{v}, 3, significance.FormNonCentral)
		require.NoError(t, err)
		return p[0]
	}
	// The density has a log singularity at 1; integrate each side separately.
	piece := func(a, b float64) float64 {
		half := (b - a) / 2
		return quad.Fixed(func(t float64) float64 {
			return density(a+half*(1-math.Cos(t))) * half * math.Sin(t)
		}, 0, math.Pi, 160, nil, 0)
	}
	mass := piece(0, 1) + piece(1, 9)
	assert.InDelta(t, 1.0, mass, 0.03)
}

func TestPhaseVectorPDF_LongWalks(t *testing.T) {
	k := 6
	density := func(v float64) float64 {
		p, err := significance.PhaseVectorPDF([]float64{v}, k, significance.FormNonCentral)
		require.NoError(t, err)
		return p[0]
	}
	mass := quad.Fixed(density, 0, 150, 400, nil, 0)
	assert.InDelta(t, 1.0, mass, 1e-6)

	p, err := significance.PhaseVectorPDF([]float64{-2, 0, 1}, k, significance.FormBessel)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p[0])
	assert.InDelta(t, math.Exp(-0.2)/5, p[1], 1e-15)
	assert.InDelta(t, math.Exp(-0.4)*math.J0(0.4)/5, p[2], 1e-15)
}
