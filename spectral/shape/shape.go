package shape

import (
	"math"

	"github.com/cwbudde/algo-spectral/spectral/psd"
)

// DefaultRolloff is the power fraction Describe uses for the rolloff
// descriptor.
const DefaultRolloff = 0.85

// Stats describes the shape of a spectral density estimate. All
// frequencies are normalized, in cycles per sample.
type Stats struct {
	// Centroid is the power-weighted mean frequency.
	Centroid float64

	// Spread is the power-weighted standard deviation of frequency
	// around the centroid.
	Spread float64

	// Flatness is the ratio of the geometric to the arithmetic mean
	// of the density ordinates above DC, in [0, 1].
	Flatness float64

	// Rolloff is the frequency below which DefaultRolloff of the band
	// power lies.
	Rolloff float64

	// Peak is the frequency of the largest density ordinate.
	Peak float64

	// PeakWidth is the half-power width of the lobe around Peak.
	// Lobes cut off by the grid edge extend to that edge.
	PeakWidth float64
}

// Describe computes shape descriptors for the estimate. Estimates with
// fewer than two grid points, or with no power, yield the zero value.
func Describe(e *psd.Estimate) Stats {
	if !usable(e) {
		return Stats{}
	}

	sum := 0.0
	for _, p := range e.Power {
		sum += p
	}

	var s Stats
	s.Centroid = centroid(e.Freqs, e.Power, sum)
	s.Spread = spread(e.Freqs, e.Power, s.Centroid, sum)
	s.Flatness = flatness(e.Power)
	s.Rolloff = rolloff(e.Freqs, e.Power, DefaultRolloff, e.TotalPower())
	s.Peak, s.PeakWidth = peak(e.Freqs, e.Power)
	return s
}

// Rolloff returns the frequency below which the given fraction of the
// estimate's power lies. The cumulative power is taken grid point by
// grid point, so the result lands on the grid; fractions at or above
// one return its Nyquist end.
func Rolloff(e *psd.Estimate, frac float64) float64 {
	if !usable(e) {
		return 0
	}
	return rolloff(e.Freqs, e.Power, frac, e.TotalPower())
}

func usable(e *psd.Estimate) bool {
	return e != nil && len(e.Power) >= 2 && len(e.Freqs) == len(e.Power)
}

func centroid(freqs, power []float64, sum float64) float64 {
	if sum <= 0 {
		return 0
	}
	weighted := 0.0
	for i, p := range power {
		weighted += freqs[i] * p
	}
	return weighted / sum
}

func spread(freqs, power []float64, cent, sum float64) float64 {
	if sum <= 0 {
		return 0
	}
	weighted := 0.0
	for i, p := range power {
		d := freqs[i] - cent
		weighted += d * d * p
	}
	return math.Sqrt(weighted / sum)
}

// flatness skips the DC ordinate; a demeaned series leaves it near zero
// and it would otherwise dominate the geometric mean. Any non-positive
// ordinate pins the geometric mean, and with it the ratio, to zero.
func flatness(power []float64) float64 {
	bins := float64(len(power) - 1)
	sumLin := 0.0
	sumLog := 0.0
	for _, p := range power[1:] {
		if p <= 0 {
			return 0
		}
		sumLin += p
		sumLog += math.Log(p)
	}
	if sumLin == 0 {
		return 0
	}
	return math.Exp(sumLog/bins) / (sumLin / bins)
}

func rolloff(freqs, power []float64, frac, total float64) float64 {
	if total <= 0 {
		return 0
	}
	threshold := frac * total
	cum := 0.0
	for i := 1; i < len(power); i++ {
		cum += 0.5 * (power[i] + power[i-1]) * (freqs[i] - freqs[i-1])
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// peak locates the largest ordinate and measures its lobe width where
// the density crosses half the peak value, interpolating between grid
// points.
func peak(freqs, power []float64) (freq, width float64) {
	peakBin := 0
	peakVal := power[0]
	for i, p := range power {
		if p > peakVal {
			peakVal = p
			peakBin = i
		}
	}
	if peakVal <= 0 {
		return freqs[peakBin], 0
	}

	threshold := peakVal / 2

	lower := freqs[0]
	for i := peakBin; i >= 1; i-- {
		if power[i-1] <= threshold && power[i] > threshold {
			lower = crossing(freqs[i-1], freqs[i], power[i-1], power[i], threshold)
			break
		}
	}

	upper := freqs[len(freqs)-1]
	for i := peakBin; i < len(power)-1; i++ {
		if power[i+1] <= threshold && power[i] > threshold {
			upper = crossing(freqs[i], freqs[i+1], power[i], power[i+1], threshold)
			break
		}
	}

	if upper < lower {
		return freqs[peakBin], 0
	}
	return freqs[peakBin], upper - lower
}

// crossing interpolates the frequency at which the ordinates pass
// through the threshold between two adjacent grid points.
func crossing(fLow, fHigh, pLow, pHigh, threshold float64) float64 {
	if pHigh == pLow {
		return (fLow + fHigh) / 2
	}
	t := (threshold - pLow) / (pHigh - pLow)
	return fLow + t*(fHigh-fLow)
}
