package psd

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMinSegment = 64
	defaultOverlap    = 0.5
)

type config struct {
	windowType window.Type
	windowOpts []window.Option
	segLen     int
	overlap    float64
}

func defaultConfig() config {
	return config{
		windowType: window.TypeHann,
		windowOpts: []window.Option{window.WithPeriodic()},
		overlap:    defaultOverlap,
	}
}

// Option configures spectral estimation.
type Option func(*config)

// WithWindow selects the taper applied to each transform block.
// Defaults to the Hann window.
func WithWindow(t window.Type) Option {
	return func(cfg *config) {
		cfg.windowType = t
	}
}

// WithWindowOptions replaces the window generation options. The default
// is periodic form; passing no options selects the symmetric form.
func WithWindowOptions(opts ...window.Option) Option {
	return func(cfg *config) {
		cfg.windowOpts = opts
	}
}

// WithSegmentLength sets the Welch segment length in samples. Zero keeps
// the default of a quarter of the series, no shorter than 64 samples and
// capped at the series length. Periodogram ignores it.
func WithSegmentLength(n int) Option {
	return func(cfg *config) {
		cfg.segLen = n
	}
}

// WithOverlap sets the fraction of each Welch segment shared with its
// neighbor, in [0, 1). Defaults to 0.5. Periodogram ignores it.
func WithOverlap(frac float64) Option {
	return func(cfg *config) {
		cfg.overlap = frac
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Estimate is a one-sided spectral density on a uniform normalized
// frequency grid from DC to Nyquist inclusive.
type Estimate struct {
	// Freqs is the frequency grid; adjacent points are 1/M apart for
	// FFT length M.
	Freqs []float64

	// Power holds density ordinates matching Freqs. Integrating them
	// over frequency yields variance.
	Power []float64

	// N is the time-domain length that set the frequency resolution:
	// the series length for Periodogram, the segment length for Welch.
	N int

	// Window is the taper the estimate was computed with.
	Window window.Type
}

// Periodogram estimates the spectral density of x in a single transform:
// demean, taper, zero-pad to the next power of two, FFT, then fold into
// the one-sided density c_k*|X[k]|^2/sum(w^2) with c_k = 2 on interior
// bins. Zero padding refines the grid; the resolution stays 1/len(x).
func Periodogram(x []float64, opts ...Option) (*Estimate, error) {
	cfg := applyOptions(opts)

	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: periodogram needs at least 2 samples, got %d", core.ErrInsufficientData, n)
	}
	if !core.AllFinite(x) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}

	return estimate(x, n, 0, cfg)
}

// Welch estimates the spectral density by averaging tapered transforms
// of overlapped segments. Each segment is demeaned on its own, so level
// drift between segments does not masquerade as long-period power. The
// resolution is set by the segment length, not the series length.
func Welch(x []float64, opts ...Option) (*Estimate, error) {
	cfg := applyOptions(opts)

	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: welch needs at least 2 samples, got %d", core.ErrInsufficientData, n)
	}
	if !core.AllFinite(x) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}
	if math.IsNaN(cfg.overlap) || cfg.overlap < 0 || cfg.overlap >= 1 {
		return nil, fmt.Errorf("psd: overlap must be in [0, 1), got %v", cfg.overlap)
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
		return nil, fmt.Errorf("psd: segment length must be at least 2, got %d", segLen)
	case segLen > n:
		return nil, fmt.Errorf("%w: series has %d samples, segments need %d", core.ErrInsufficientData, n, segLen)
	}

	return estimate(x, segLen, cfg.overlap, cfg)
}

func estimate(x []float64, segLen int, overlap float64, cfg config) (*Estimate, error) {
	coeffs := window.Generate(cfg.windowType, segLen, cfg.windowOpts...)

	u := 0.0
	for _, c := range coeffs {
		u += c * c
	}
	if u == 0 {
		return nil, fmt.Errorf("%w: window %v has no power at length %d", core.ErrInvalidInput, cfg.windowType, segLen)
	}

	m := nextPowerOf2(segLen)
	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("psd: failed to create FFT plan: %w", err)
	}

	est := newEstimate(m, segLen, cfg.windowType)

	step := segLen - int(float64(segLen)*overlap)
	if step < 1 {
		step = 1
	}

	buf := getScratch(segLen, m)
	defer putScratch(buf)

	segments := 0
	for start := 0; start+segLen <= len(x); start += step {
		if err := accumulateSegment(est.Power, x[start:start+segLen], coeffs, u, plan, buf); err != nil {
			return nil, err
		}
		segments++
	}

	if segments > 1 {
		vecmath.ScaleBlock(est.Power, est.Power, 1/float64(segments))
	}

	return est, nil
}

// accumulateSegment adds the one-sided density of one demeaned, tapered
// segment onto acc.
func accumulateSegment(acc, seg, coeffs []float64, u float64, plan *algofft.Plan[complex128], buf *scratchBuf) error {
	n := len(seg)
	m := len(buf.freq) / 2
	in := buf.freq[:m]
	out := buf.freq[m:]

	mean := 0.0
	for _, v := range seg {
		mean += v
	}
	mean /= float64(n)

	copy(buf.seg, seg)
	for i := range buf.seg {
		buf.seg[i] -= mean
	}
	vecmath.MulBlockInPlace(buf.seg, coeffs)

	for i := range in {
		if i < n {
			in[i] = complex(buf.seg[i], 0)
		} else {
			in[i] = 0
		}
	}

	if err := plan.Forward(out, in); err != nil {
		return fmt.Errorf("psd: forward FFT failed: %w", err)
	}

	half := m/2 + 1
	for k := 0; k < half; k++ {
		scale := 1 / u
		if k != 0 && k != m/2 {
			scale = 2 / u
		}
		c := out[k]
		acc[k] += (real(c)*real(c) + imag(c)*imag(c)) * scale
	}

	return nil
}

func newEstimate(m, n int, t window.Type) *Estimate {
	half := m/2 + 1
	df := 1 / float64(m)

	freqs := make([]float64, half)
	for k := range freqs {
		freqs[k] = float64(k) * df
	}

	return &Estimate{
		Freqs:  freqs,
		Power:  make([]float64, half),
		N:      n,
		Window: t,
	}
}

// TotalPower returns the trapezoidal integral of the density over the
// full grid. With the rectangular window this recovers the biased sample
// variance up to the halved DC and Nyquist edge ordinates.
func (e *Estimate) TotalPower() float64 {
	if len(e.Freqs) < 2 {
		return 0
	}
	return core.Trapezoid(e.Power, e.Freqs[1], 0, e.Freqs[len(e.Freqs)-1])
}

// BandPower returns the trapezoidal integral of the density between low
// and high, with ordinates linearly interpolated at the exact edges.
// Adjacent bands share their edge ordinate, so band powers tile
// TotalPower without double counting.
func (e *Estimate) BandPower(low, high float64) (float64, error) {
	if len(e.Freqs) < 2 {
		return 0, fmt.Errorf("%w: estimate has no spectrum", core.ErrInvalidInput)
	}
	if math.IsNaN(low) || math.IsNaN(high) || low < 0 || high > band.Nyquist || low >= high {
		return 0, fmt.Errorf("%w: band edges [%v, %v] must satisfy 0 <= low < high <= %v",
			core.ErrInvalidInput, low, high, band.Nyquist)
	}
	return core.Trapezoid(e.Power, e.Freqs[1], low, high), nil
}

// BandPowers returns one BandPower per resolved band. Every band must
// span at least one Rayleigh bin (width 1/N); a narrower band cannot be
// resolved from a series of this length.
func (e *Estimate) BandPowers(bands []band.Band) ([]float64, error) {
	if e.N < 1 {
		return nil, fmt.Errorf("%w: estimate has no sample count", core.ErrInvalidInput)
	}

	resolution := 1 / float64(e.N)
	out := make([]float64, len(bands))
	for i, b := range bands {
		if b.Width() < resolution {
			return nil, fmt.Errorf("%w: band %q is narrower (%.4g) than the %.4g resolution of %d samples",
				core.ErrInsufficientData, b.Name, b.Width(), resolution, e.N)
		}
		p, err := e.BandPower(b.Low, b.High)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// scratchBuf holds pooled scratch for one transform: the working segment
// and the FFT input/output halves.
type scratchBuf struct {
	seg  []float64
	freq []complex128
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n, m int) *scratchBuf {
	buf := scratchPool.Get().(*scratchBuf)
	if cap(buf.seg) < n {
		buf.seg = make([]float64, n)
	} else {
		buf.seg = buf.seg[:n]
	}
	need := 2 * m
	if cap(buf.freq) < need {
		buf.freq = make([]complex128, need)
	} else {
		buf.freq = buf.freq[:need]
	}
	return buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
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
