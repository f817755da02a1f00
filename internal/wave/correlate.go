package wave

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// varianceEpsilon guards the unit-variance division so near-silent input
// does not produce NaN samples.
const varianceEpsilon = 1e-10

// Alignment is the result of cross-correlating a candidate against a reference.
type Alignment struct {
	// OffsetSamples is the signed lag of the correlation peak. Positive means
	// the candidate starts later than the reference and must be delayed;
	// negative means its start must be trimmed.
	OffsetSamples int
	// Score is the peak correlation magnitude divided by the reference
	// length, keeping scores comparable across candidates of different
	// lengths against a fixed-length reference window.
	Score float64
}

// OffsetSeconds converts the peak lag to seconds at the given analysis rate.
func (a Alignment) OffsetSeconds(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(a.OffsetSamples) / float64(sampleRate)
}

// CrossCorrelate computes the full linear cross-correlation of the two
// signals after normalizing each to zero mean and unit variance, and returns
// the lag with maximum absolute correlation. Both inputs must be non-empty.
func CrossCorrelate(reference, candidate []float64) (Alignment, error) {
	if len(reference) == 0 || len(candidate) == 0 {
		return Alignment{}, errors.New("cross-correlate: empty input signal")
	}

	ref := standardize(reference)
	cand := standardize(candidate)

	corr := correlateFull(ref, cand)

	peakIdx := 0
	peakMag := 0.0
	for i, v := range corr {
		if mag := math.Abs(v); mag > peakMag {
			peakMag = mag
			peakIdx = i
		}
	}

	return Alignment{
		OffsetSamples: peakIdx - len(cand) + 1,
		Score:         peakMag / float64(len(ref)),
	}, nil
}

// standardize returns a copy of s with zero mean and unit variance.
func standardize(s []float64) []float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	mean := sum / float64(len(s))

	var sq float64
	for _, v := range s {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(s)))

	out := make([]float64, len(s))
	denom := std + varianceEpsilon
	for i, v := range s {
		out[i] = (v - mean) / denom
	}
	return out
}

// correlateFull returns the full linear cross-correlation of a and b
// (length len(a)+len(b)-1), computed as the FFT-based convolution of a with
// the reversal of b. Zero-padding to a power of two makes this exactly
// equivalent to direct correlation up to floating-point rounding.
func correlateFull(a, b []float64) []float64 {
	n := len(a) + len(b) - 1
	size := nextPowerOfTwo(n)

	pa := make([]float64, size)
	copy(pa, a)

	pb := make([]float64, size)
	for i, v := range b {
		pb[len(b)-1-i] = v
	}

	fa := fft.FFTReal(pa)
	fb := fft.FFTReal(pb)

	product := make([]complex128, size)
	for i := range product {
		product[i] = fa[i] * fb[i]
	}

	inv := fft.IFFT(product)
	out := make([]float64, n)
	for i := range out {
		out[i] = real(inv[i])
	}
	return out
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
