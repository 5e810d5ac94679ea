// Package seasonal splits a series into trend, seasonal and residual
// parts by classical moving-average decomposition.
//
// The trend is a centered moving average spanning one full period, the
// seasonal component is the phase means of the detrended series
// (centered to zero so it carries shape, not level), and the residual is
// what remains. The three parts sum back to the input. Strength scores
// compare the residual variance against each component in the usual
// decomposition-strength form.
package seasonal

import (
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/stats/returns"
)

// Decomposition holds the additive parts of one series.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
}

// Decompose splits x into trend, seasonal and residual parts for the
// given seasonality period in samples. The series must cover at least
// two full periods.
func Decompose(x []float64, period int) (*Decomposition, error) {
	if period < 2 {
		return nil, fmt.Errorf("%w: period must be at least 2, got %d", core.ErrInvalidInput, period)
	}
	if len(x) < 2*period {
		return nil, fmt.Errorf("%w: series has %d samples, decomposition needs %d", core.ErrInsufficientData, len(x), 2*period)
	}
	if !core.AllFinite(x) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}

	n := len(x)
	trend := centeredMA(x, period)

	detrended := make([]float64, n)
	for i := range x {
		detrended[i] = x[i] - trend[i]
	}

	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		p := i % period
		sums[p] += v
		counts[p]++
	}

	profile := make([]float64, period)
	profileMean := 0.0
	for p := range profile {
		profile[p] = sums[p] / float64(counts[p])
		profileMean += profile[p]
	}
	profileMean /= float64(period)
	for p := range profile {
		profile[p] -= profileMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range x {
		seasonal[i] = profile[i%period]
		residual[i] = detrended[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}, nil
}

// SeasonalStrength scores how much of the deseasonalized variation the
// seasonal component explains, in [0, 1].
func (d *Decomposition) SeasonalStrength() float64 {
	return strength(d.Seasonal, d.Residual)
}

// TrendStrength scores how much of the detrended variation the trend
// explains, in [0, 1].
func (d *Decomposition) TrendStrength() float64 {
	return strength(d.Trend, d.Residual)
}

// strength is 1 - var(residual)/var(component+residual), clamped to
// [0, 1]; 0 when the combined variance is degenerate.
func strength(component, residual []float64) float64 {
	combined := make([]float64, len(component))
	for i := range combined {
		combined[i] = component[i] + residual[i]
	}

	vc := returns.Calculate(combined).Variance
	if vc < 1e-20 {
		return 0
	}
	vr := returns.Calculate(residual).Variance

	return core.Clamp(1-vr/vc, 0, 1)
}

// centeredMA is the classical trend filter: a centered window spanning
// one full period, with half weights on both ends when the period is
// even so the window still covers exactly one cycle. Windows shrink to
// the available samples near the edges.
func centeredMA(x []float64, period int) []float64 {
	n := len(x)
	out := make([]float64, n)
	half := period / 2
	even := period%2 == 0

	for i := range x {
		lo := i - half
		hi := i + half

		if lo >= 0 && hi < n {
			if even {
				sum := 0.5*x[lo] + 0.5*x[hi]
				for j := lo + 1; j < hi; j++ {
					sum += x[j]
				}
				out[i] = sum / float64(period)
			} else {
				sum := 0.0
				for j := lo; j <= hi; j++ {
					sum += x[j]
				}
				out[i] = sum / float64(period)
			}
			continue
		}

		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out
}
