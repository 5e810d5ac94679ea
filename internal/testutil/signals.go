package testutil

import (
	"math"
	"math/rand"
)

// SinePeriod generates a deterministic sine with the given period in samples.
// The rest of the repo works in normalized frequency (sample rate 1), so
// tests describe tones by period rather than Hz.
func SinePeriod(period, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if period == 0 {
		return out
	}
	step := 2 * math.Pi / period
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SeededNoise generates uniform white noise in [-amplitude, amplitude]
// with a fixed seed for reproducibility.
func SeededNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Constant generates a constant-valued series.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Mix sums any number of equal-length series into a new slice.
func Mix(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for _, s := range series {
		for i := range out {
			if i < len(s) {
				out[i] += s[i]
			}
		}
	}
	return out
}
