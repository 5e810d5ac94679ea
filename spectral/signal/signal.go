// Package signal generates deterministic synthetic series for demos,
// examples and tests. Everything works in the normalized-rate domain:
// tones are described by their period in samples and noise by a fixed
// seed, so fixtures reproduce bit for bit across runs.
package signal

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// Sine generates a sine wave with the given period in samples.
// A non-positive period yields a zero series.
func Sine(period, amplitude float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if period <= 0 {
		return out
	}
	step := 2 * math.Pi / period
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude] from a
// fixed seed.
func WhiteNoise(seed int64, amplitude float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates normal noise with standard deviation sigma
// from a fixed seed.
func GaussianNoise(seed int64, sigma float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// Constant generates a constant-valued series.
func Constant(value float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Line generates the ramp start + slope*i.
func Line(start, slope float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + slope*float64(i)
	}
	return out
}

// Add sums series element-wise into a new slice. The first series sets
// the length; shorter series contribute zeros past their end.
func Add(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for _, s := range series {
		n := len(s)
		if n > len(out) {
			n = len(out)
		}
		vecmath.AddBlockInPlace(out[:n], s[:n])
	}
	return out
}
