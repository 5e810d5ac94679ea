package cross

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/psd"
	"github.com/cwbudde/algo-spectral/spectral/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMinSegment = 64
	defaultOverlap    = 0.5

	// minBandDenom floors the auto-power product under a band
	// correlation. A band with less joint power than this carries no
	// signal, so the ratio reports zero instead of noise over noise.
	minBandDenom = 1e-20
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

// Option configures cross-spectral estimation.
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

// WithSegmentLength sets the Welch segment length used by Coherence.
// Zero keeps the default of a quarter of the series, no shorter than 64
// samples and capped at the series length. Spectrum ignores it.
func WithSegmentLength(n int) Option {
	return func(cfg *config) {
		cfg.segLen = n
	}
}

// WithOverlap sets the fraction of each Welch segment shared with its
// neighbor, in [0, 1). Defaults to 0.5. Spectrum ignores it.
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

// Estimate is a one-sided cross-spectral density on the same uniform
// grid psd estimates use, split into real and imaginary parts.
type Estimate struct {
	// Freqs is the frequency grid; adjacent points are 1/M apart for
	// FFT length M.
	Freqs []float64

	// Co is the co-spectrum, the real part of X*conj(Y). It measures
	// in-phase covariation and integrates to the band covariance.
	Co []float64

	// Quad is the quadrature spectrum, the imaginary part of
	// X*conj(Y). Positive values at a frequency mean x leads y there.
	Quad []float64

	// N is the time-domain length that set the frequency resolution.
	N int

	// Window is the taper the estimate was computed with.
	Window window.Type
}

// Spectrum estimates the one-sided cross-spectral density of x and y in
// a single transform pair: both series are demeaned, tapered with the
// same window, zero-padded to the next power of two and transformed,
// then combined as c_k*X[k]*conj(Y[k])/sum(w^2) with c_k = 2 on
// interior bins. Spectrum(x, x) reproduces the Periodogram density of x
// in Co with an identically zero Quad.
func Spectrum(x, y []float64, opts ...Option) (*Estimate, error) {
	cfg := applyOptions(opts)

	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: series lengths differ: %d vs %d", core.ErrInvalidInput, len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: cross spectrum needs at least 2 samples, got %d", core.ErrInsufficientData, n)
	}
	if !core.AllFinite(x) || !core.AllFinite(y) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}

	coeffs, u, err := windowPower(cfg, n)
	if err != nil {
		return nil, err
	}

	m := nextPowerOf2(n)
	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("cross: failed to create FFT plan: %w", err)
	}

	est := newEstimate(m, n, cfg.windowType)

	buf := getScratch(n, m)
	defer putScratch(buf)

	if err := accumulatePair(est.Co, est.Quad, nil, nil, x, y, coeffs, u, plan, buf); err != nil {
		return nil, err
	}

	return est, nil
}

// BandIntegral returns the trapezoidal integral of the cross density
// between low and high, co-spectrum in the real part and quadrature
// spectrum in the imaginary part. Edge ordinates are interpolated the
// same way psd band powers are, so cross and auto integrals over the
// same band share their geometry.
func (e *Estimate) BandIntegral(low, high float64) (complex128, error) {
	if len(e.Freqs) < 2 {
		return 0, fmt.Errorf("%w: estimate has no spectrum", core.ErrInvalidInput)
	}
	if math.IsNaN(low) || math.IsNaN(high) || low < 0 || high > band.Nyquist || low >= high {
		return 0, fmt.Errorf("%w: band edges [%v, %v] must satisfy 0 <= low < high <= %v",
			core.ErrInvalidInput, low, high, band.Nyquist)
	}

	df := e.Freqs[1]
	return complex(core.Trapezoid(e.Co, df, low, high), core.Trapezoid(e.Quad, df, low, high)), nil
}

// Conj returns the estimate with the series roles swapped: the
// co-spectrum is shared and the quadrature spectrum flips sign, so
// Spectrum(y, x) and Spectrum(x, y).Conj() agree.
func (e *Estimate) Conj() *Estimate {
	out := &Estimate{
		Freqs:  append([]float64(nil), e.Freqs...),
		Co:     append([]float64(nil), e.Co...),
		Quad:   make([]float64, len(e.Quad)),
		N:      e.N,
		Window: e.Window,
	}
	for i, q := range e.Quad {
		out.Quad[i] = -q
	}
	return out
}

// BandCorrelation normalizes the integrated co-spectrum by the auto
// power of both series in the same band, giving a correlation in
// [-1, 1] between the band components of x and y. All three estimates
// must share grid and window. Bands with negligible joint power return
// zero rather than an unstable ratio.
func BandCorrelation(cs *Estimate, px, py *psd.Estimate, b band.Band) (float64, error) {
	if cs == nil || px == nil || py == nil {
		return 0, fmt.Errorf("%w: nil estimate", core.ErrInvalidInput)
	}
	if len(cs.Freqs) != len(px.Freqs) || len(cs.Freqs) != len(py.Freqs) {
		return 0, fmt.Errorf("%w: estimates use different grids: %d, %d and %d bins",
			core.ErrInvalidInput, len(cs.Freqs), len(px.Freqs), len(py.Freqs))
	}
	if cs.Window != px.Window || cs.Window != py.Window {
		return 0, fmt.Errorf("%w: estimates use different windows: %v, %v and %v",
			core.ErrInvalidInput, cs.Window, px.Window, py.Window)
	}

	integral, err := cs.BandIntegral(b.Low, b.High)
	if err != nil {
		return 0, err
	}
	powX, err := px.BandPower(b.Low, b.High)
	if err != nil {
		return 0, err
	}
	powY, err := py.BandPower(b.Low, b.High)
	if err != nil {
		return 0, err
	}

	denom := powX * powY
	if denom < minBandDenom {
		return 0, nil
	}

	return core.Clamp(real(integral)/math.Sqrt(denom), -1, 1), nil
}

// windowPower generates the taper and its power sum.
func windowPower(cfg config, n int) ([]float64, float64, error) {
	coeffs := window.Generate(cfg.windowType, n, cfg.windowOpts...)

	u := 0.0
	for _, c := range coeffs {
		u += c * c
	}
	if u == 0 {
		return nil, 0, fmt.Errorf("%w: window %v has no power at length %d", core.ErrInvalidInput, cfg.windowType, n)
	}

	return coeffs, u, nil
}

// accumulatePair adds the one-sided cross density of one pair of
// demeaned, tapered segments onto co and quad. When pxx and pyy are
// non-nil the matching auto densities are accumulated as well, from the
// same two transforms.
func accumulatePair(co, quad, pxx, pyy []float64, segX, segY, coeffs []float64, u float64, plan *algofft.Plan[complex128], buf *scratchBuf) error {
	m := len(buf.freq) / 2
	in := buf.freq[:m]
	out := buf.freq[m:]

	fillTransformInput(in, segX, coeffs, buf.seg)
	if err := plan.Forward(out, in); err != nil {
		return fmt.Errorf("cross: forward FFT failed: %w", err)
	}
	copy(buf.spec, out[:len(buf.spec)])

	fillTransformInput(in, segY, coeffs, buf.seg)
	if err := plan.Forward(out, in); err != nil {
		return fmt.Errorf("cross: forward FFT failed: %w", err)
	}

	half := m/2 + 1
	for k := 0; k < half; k++ {
		scale := 1 / u
		if k != 0 && k != m/2 {
			scale = 2 / u
		}
		xc := buf.spec[k]
		yc := out[k]
		xr, xi := real(xc), imag(xc)
		yr, yi := real(yc), imag(yc)
		co[k] += (xr*yr + xi*yi) * scale
		quad[k] += (xi*yr - xr*yi) * scale
		if pxx != nil {
			pxx[k] += (xr*xr + xi*xi) * scale
		}
		if pyy != nil {
			pyy[k] += (yr*yr + yi*yi) * scale
		}
	}

	return nil
}

// fillTransformInput writes the demeaned, tapered segment into the
// zero-padded complex FFT input.
func fillTransformInput(in []complex128, seg, coeffs []float64, scratch []float64) {
	n := len(seg)

	mean := 0.0
	for _, v := range seg {
		mean += v
	}
	mean /= float64(n)

	copy(scratch, seg)
	for i := range scratch {
		scratch[i] -= mean
	}
	vecmath.MulBlockInPlace(scratch, coeffs)

	for i := range in {
		if i < n {
			in[i] = complex(scratch[i], 0)
		} else {
			in[i] = 0
		}
	}
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
		Co:     make([]float64, half),
		Quad:   make([]float64, half),
		N:      n,
		Window: t,
	}
}

// scratchBuf holds pooled scratch for one transform pair: the working
// segment, the FFT input/output halves and the saved first spectrum.
type scratchBuf struct {
	seg  []float64
	freq []complex128
	spec []complex128
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
	half := m/2 + 1
	if cap(buf.spec) < half {
		buf.spec = make([]complex128, half)
	} else {
		buf.spec = buf.spec[:half]
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
