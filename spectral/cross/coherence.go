package cross

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/psd"
)

// Coherence estimates the magnitude-squared coherence of x and y from
// Welch-averaged segments:
//
//	msc[k] = |sum Cxy[k]|^2 / (sum Pxx[k] * sum Pyy[k])
//
// with the sums running over segments. The result reuses psd.Estimate
// with Power holding msc values in [0, 1]; a value near 1 means the two
// series are linearly related at that frequency across segments.
//
// A single segment is degenerate (the ratio is identically 1 whatever
// the inputs), so Coherence requires at least 2 segments; shorten the
// segment length or lower the overlap to get more.
func Coherence(x, y []float64, opts ...Option) (*psd.Estimate, error) {
	cfg := applyOptions(opts)

	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: series lengths differ: %d vs %d", core.ErrInvalidInput, len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: coherence needs at least 2 samples, got %d", core.ErrInsufficientData, n)
	}
	if !core.AllFinite(x) || !core.AllFinite(y) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}
	if math.IsNaN(cfg.overlap) || cfg.overlap < 0 || cfg.overlap >= 1 {
		return nil, fmt.Errorf("cross: overlap must be in [0, 1), got %v", cfg.overlap)
	}

	segLen := cfg.segLen
	switch {
	case segLen == 0:
		segLen = n / 4
		if segLen < defaultMinSegment {
			segLen = defaultMinSegment
		}
		if segLen > n {
			segLen = n
		}
	case segLen < 2:
		return nil, fmt.Errorf("cross: segment length must be at least 2, got %d", segLen)
	case segLen > n:
		return nil, fmt.Errorf("%w: series has %d samples, segments need %d", core.ErrInsufficientData, n, segLen)
	}

	coeffs, u, err := windowPower(cfg, segLen)
	if err != nil {
		return nil, err
	}

	m := nextPowerOf2(segLen)
	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("cross: failed to create FFT plan: %w", err)
	}

	step := segLen - int(float64(segLen)*cfg.overlap)
	if step < 1 {
		step = 1
	}

	half := m/2 + 1
	co := make([]float64, half)
	quad := make([]float64, half)
	pxx := make([]float64, half)
	pyy := make([]float64, half)

	buf := getScratch(segLen, m)
	defer putScratch(buf)

	segments := 0
	for start := 0; start+segLen <= n; start += step {
		if err := accumulatePair(co, quad, pxx, pyy, x[start:start+segLen], y[start:start+segLen], coeffs, u, plan, buf); err != nil {
			return nil, err
		}
		segments++
	}

	if segments < 2 {
		return nil, fmt.Errorf("%w: coherence needs at least 2 welch segments, got %d", core.ErrInsufficientData, segments)
	}

	// Per-bin window and averaging factors cancel in the ratio, so the
	// raw accumulated sums are used directly.
	est := &psd.Estimate{
		Freqs:  make([]float64, half),
		Power:  make([]float64, half),
		N:      segLen,
		Window: cfg.windowType,
	}
	df := 1 / float64(m)
	for k := range est.Freqs {
		est.Freqs[k] = float64(k) * df
	}
	for k := 0; k < half; k++ {
		denom := pxx[k] * pyy[k]
		if denom <= 0 {
			continue
		}
		est.Power[k] = core.Clamp((co[k]*co[k]+quad[k]*quad[k])/denom, 0, 1)
	}

	return est, nil
}
