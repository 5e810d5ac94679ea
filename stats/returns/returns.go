// Package returns computes descriptive statistics for return series.
//
// Variance follows the population (1/N) convention so time-domain
// variance and spectral-density integrals agree; SampleVariance exposes
// the N-1 estimate where an unbiased figure is wanted. Annualization
// helpers use the trading-calendar scaling of per-sample moments.
package returns

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral/spectral/core"
)

// degenerateVariance is the variance floor below which a series is
// treated as constant for correlation purposes.
const degenerateVariance = 1e-20

// Moments holds the single-pass moment statistics of one series.
type Moments struct {
	N        int
	Mean     float64
	Variance float64 // population (1/N)
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess
	Min      float64
	Max      float64
}

// Calculate computes all moments in a single pass using Welford's
// online algorithm for numerical stability on the higher orders.
// An empty input yields the zero value.
func Calculate(x []float64) Moments {
	n := len(x)
	if n == 0 {
		return Moments{}
	}

	var (
		mean float64
		m2   float64
		m3   float64
		m4   float64
	)
	minVal := x[0]
	maxVal := x[0]

	for i, v := range x {
		ni := float64(i + 1)
		delta := v - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	nf := float64(n)
	variance := m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return Moments{
		N:        n,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Skewness: skewness,
		Kurtosis: kurtosis,
		Min:      minVal,
		Max:      maxVal,
	}
}

// SampleVariance returns the unbiased (N-1) variance, 0 for N < 2.
func (m Moments) SampleVariance() float64 {
	if m.N < 2 {
		return 0
	}
	return m.Variance * float64(m.N) / float64(m.N-1)
}

// Correlation returns the Pearson correlation of x and y. Mismatched or
// too-short inputs and series whose variance falls below 1e-20 (constant
// under float precision) report 0 rather than an unstable ratio.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	nf := float64(n)
	meanX /= nf
	meanY /= nf

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	if sxx/nf < degenerateVariance || syy/nf < degenerateVariance {
		return 0
	}

	return core.Clamp(sxy/math.Sqrt(sxx*syy), -1, 1)
}

// AnnualizedReturn scales a per-sample mean return to a yearly figure.
func AnnualizedReturn(meanPerSample, periodsPerYear float64) float64 {
	return meanPerSample * periodsPerYear
}

// AnnualizedVolatility scales a per-sample standard deviation to a
// yearly figure by the square-root-of-time rule.
func AnnualizedVolatility(stdPerSample, periodsPerYear float64) float64 {
	return stdPerSample * math.Sqrt(periodsPerYear)
}

// SharpeRatio returns the annualized mean over the annualized
// volatility, 0 for a zero-volatility series. Subtracting a risk-free
// rate from the input returns is the caller's choice.
func SharpeRatio(meanPerSample, stdPerSample, periodsPerYear float64) float64 {
	if stdPerSample == 0 {
		return 0
	}
	return AnnualizedReturn(meanPerSample, periodsPerYear) /
		AnnualizedVolatility(stdPerSample, periodsPerYear)
}

// RollingVolatility returns the population standard deviation of
// trailing windows advancing by step. The first window covers
// x[0:window]; the result has (len(x)-window)/step + 1 entries.
func RollingVolatility(x []float64, window, step int) ([]float64, error) {
	if window < 2 {
		return nil, fmt.Errorf("%w: window must be at least 2, got %d", core.ErrInvalidInput, window)
	}
	if step < 1 {
		return nil, fmt.Errorf("%w: step must be at least 1, got %d", core.ErrInvalidInput, step)
	}
	if len(x) < window {
		return nil, fmt.Errorf("%w: series has %d samples, window needs %d", core.ErrInsufficientData, len(x), window)
	}

	out := make([]float64, 0, (len(x)-window)/step+1)
	for start := 0; start+window <= len(x); start += step {
		m := Calculate(x[start : start+window])
		out = append(out, m.StdDev)
	}
	return out, nil
}
