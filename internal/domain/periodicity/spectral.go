package periodicity

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// isclose tolerances used when looking up a frequency bin.
const (
	freqAbsTol = 1e-8
	freqRelTol = 1e-5
)

// WelchOptions configures segment averaging for spectral estimates.
type WelchOptions struct {
	// Window holds the taps applied to every segment. Its length is the
	// segment length.
	Window []float64
	// Overlap is the number of samples shared by consecutive segments.
	Overlap int
}

// Spectrum is a one-sided spectral estimate.
type Spectrum struct {
	// Freqs are in cycles per sample.
	Freqs  []float64
	Values []float64
}

// At returns the value at the first bin within tolerance of freq. The
// boolean is false when no bin matches, which is distinct from a bin whose
// value is zero.
func (s Spectrum) At(freq float64) (float64, bool) {
	for i, f := range s.Freqs {
		if math.Abs(f-freq) <= freqAbsTol+freqRelTol*math.Abs(freq) {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Welch estimates the magnitude-squared coherence of x and y,
// |Pxy|^2 / (Pxx * Pyy), from segment-averaged cross and auto spectral
// densities. Each segment has its mean removed before windowing. Bins where
// either auto spectrum is zero have coherence 0. Inputs shorter than one
// segment give an empty spectrum.
func Welch(x, y []float64, opts WelchOptions) (Spectrum, error) {
	nperseg := len(opts.Window)
	if nperseg == 0 {
		return Spectrum{}, fmt.Errorf("%w: empty window", ErrInvalidWindow)
	}
	if opts.Overlap < 0 || opts.Overlap >= nperseg {
		return Spectrum{}, fmt.Errorf("%w: overlap %d with %d taps", ErrInvalidWindow, opts.Overlap, nperseg)
	}
	if len(x) != len(y) {
		return Spectrum{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < nperseg {
		return Spectrum{}, nil
	}

	step := nperseg - opts.Overlap
	segments := (len(x) - opts.Overlap) / step
	bins := nperseg/2 + 1

	fft := fourier.NewFFT(nperseg)
	xs := make([]float64, nperseg)
	ys := make([]float64, nperseg)
	xc := make([]complex128, bins)
	yc := make([]complex128, bins)

	pxy := make([]complex128, bins)
	pxx := make([]float64, bins)
	pyy := make([]float64, bins)

	for s := 0; s < segments; s++ {
		start := s * step
		detrend(xs, x[start:start+nperseg], opts.Window)
		detrend(ys, y[start:start+nperseg], opts.Window)
		xc = fft.Coefficients(xc, xs)
		yc = fft.Coefficients(yc, ys)
		for b := 0; b < bins; b++ {
			pxy[b] += cmplx.Conj(xc[b]) * yc[b]
			pxx[b] += real(xc[b])*real(xc[b]) + imag(xc[b])*imag(xc[b])
			pyy[b] += real(yc[b])*real(yc[b]) + imag(yc[b])*imag(yc[b])
		}
	}

	// One-sided density scaling, shared by all three spectra.
	var wss float64
	for _, w := range opts.Window {
		wss += w * w
	}
	for b := 0; b < bins; b++ {
		scale := 1 / (wss * float64(segments))
		if b > 0 && !(nperseg%2 == 0 && b == bins-1) {
			scale *= 2
		}
		pxy[b] *= complex(scale, 0)
		pxx[b] *= scale
		pyy[b] *= scale
	}

	out := Spectrum{
		Freqs:  make([]float64, bins),
		Values: make([]float64, bins),
	}
	for b := 0; b < bins; b++ {
		out.Freqs[b] = fft.Freq(b)
		denom := pxx[b] * pyy[b]
		if denom <= 0 {
			continue
		}
		mag := cmplx.Abs(pxy[b])
		out.Values[b] = math.Min(1, mag*mag/denom)
	}
	return out, nil
}

// detrend writes (seg - mean(seg)) * window into dst.
func detrend(dst, seg, window []float64) {
	var mean float64
	for _, v := range seg {
		mean += v
	}
	mean /= float64(len(seg))
	for i, v := range seg {
		dst[i] = (v - mean) * window[i]
	}
}
