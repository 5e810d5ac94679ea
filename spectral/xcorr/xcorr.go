// Package xcorr computes lag cross-correlations between series.
//
// Results are full correlations of length len(a)+len(b)-1: index k holds
// the dot product of a against b shifted by lag k-(len(b)-1), so negative
// lags come first and the zero-lag term sits at index len(b)-1. A peak at
// positive lag d means a matches b delayed by d samples.
//
// The package backs two uses: verifying that band-filtered series stay
// aligned with their input (zero-phase filtering peaks at lag 0) and
// lead-lag scans between assets.
package xcorr

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-vecmath"
)

// Correlate computes the full cross-correlation of a and b by direct
// evaluation. Direct computation is O(len(a)*len(b)); prefer
// CorrelateFFT for long series.
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: empty series", core.ErrInvalidInput)
	}

	n := len(a)
	m := len(b)
	out := make([]float64, n+m-1)

	for k := range out {
		lag := k - (m - 1)
		lo := 0
		if lag > 0 {
			lo = lag
		}
		hi := n - 1
		if m-1+lag < hi {
			hi = m - 1 + lag
		}

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += a[j] * b[j-lag]
		}
		out[k] = sum
	}

	return out, nil
}

// CorrelateFFT computes the same full cross-correlation as Correlate
// via IFFT(FFT(a) * conj(FFT(b))), rearranged from circular to linear
// output.
func CorrelateFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: empty series", core.ErrInvalidInput)
	}

	n := len(a)
	m := len(b)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i := 0; i < n; i++ {
		aPadded[i] = complex(a[i], 0)
	}
	for i := 0; i < m; i++ {
		bPadded[i] = complex(b[i], 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}

	prodFreq := make([]complex128, fftSize)
	for i := range prodFreq {
		bConj := complex(real(bFreq[i]), -imag(bFreq[i]))
		prodFreq[i] = aFreq[i] * bConj
	}

	prodTime := make([]complex128, fftSize)
	if err := plan.Inverse(prodTime, prodFreq); err != nil {
		return nil, fmt.Errorf("xcorr: inverse FFT failed: %w", err)
	}

	// Circular correlation holds the positive lags at the front and the
	// negative lags at the tail of the transform; fold them into the
	// linear layout.
	out := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		out[m-1+i] = real(prodTime[i])
	}
	for i := 0; i < m-1; i++ {
		out[i] = real(prodTime[fftSize-m+1+i])
	}

	return out, nil
}

// CorrelateNormalized computes the cross-correlation scaled by the
// product of the two L2 norms, bounding every lag to [-1, 1]. Two series
// where one is a shifted copy of the other peak at exactly 1.
func CorrelateNormalized(a, b []float64) ([]float64, error) {
	out, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}

	normProduct := l2Norm(a) * l2Norm(b)
	if normProduct == 0 {
		return out, nil
	}
	vecmath.ScaleBlock(out, out, 1/normProduct)

	return out, nil
}

// FindPeak returns the index and value of the maximum correlation.
// Returns index -1 for an empty input.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}

	index = 0
	value = corr[0]
	for i, v := range corr {
		if v > value {
			index = i
			value = v
		}
	}

	return index, value
}

// LagFromIndex converts a correlation result index to a lag. For series
// of lengths lenA and lenB, the lag at index i is i - (lenB - 1).
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}

// IndexFromLag converts a lag back to its correlation result index.
func IndexFromLag(lag, lenB int) int {
	return lag + (lenB - 1)
}

func l2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
