package filterbank

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/filter/design"
	"github.com/cwbudde/algo-spectral/spectral/zerophase"
)

const (
	defaultOrder     = 4
	maxOrder         = 12
	defaultMinCycles = 1.0
)

type config struct {
	order     int
	minCycles float64
	padding   zerophase.Padding
}

func defaultConfig() config {
	return config{
		order:     defaultOrder,
		minCycles: defaultMinCycles,
		padding:   zerophase.PadReflect,
	}
}

// Option configures a Bank.
type Option func(*config)

// WithOrder sets the Butterworth order of every boundary filter.
// Defaults to 4.
func WithOrder(n int) Option {
	return func(cfg *config) {
		cfg.order = n
	}
}

// WithMinCycles sets how many full cycles of the longest interior
// boundary period the input must cover. Defaults to 1; 0 disables the
// requirement, leaving only the structural padding minimum.
func WithMinCycles(c float64) Option {
	return func(cfg *config) {
		cfg.minCycles = c
	}
}

// WithPadding selects the edge extension the boundary filters use.
// Defaults to odd reflection.
func WithPadding(p zerophase.Padding) Option {
	return func(cfg *config) {
		cfg.padding = p
	}
}

// Bank splits series into the given frequency bands. It holds one
// zero-phase lowpass filter per interior boundary and is not safe for
// concurrent use.
type Bank struct {
	bands      []band.Band
	boundaries []float64
	filters    []*zerophase.Filter
	order      int
	minCycles  float64
}

// New builds a filter bank for resolved bands, ordered shortest period
// first as returned by band.Resolve.
func New(bands []band.Band, opts ...Option) (*Bank, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", band.ErrInvalidBand)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.order < 1 || cfg.order > maxOrder {
		return nil, fmt.Errorf("filterbank: order must be in [1, %d], got %d", maxOrder, cfg.order)
	}
	if cfg.minCycles < 0 || math.IsNaN(cfg.minCycles) || math.IsInf(cfg.minCycles, 0) {
		return nil, fmt.Errorf("filterbank: min cycles must be finite and non-negative, got %v", cfg.minCycles)
	}

	for i := 0; i < len(bands)-1; i++ {
		if !core.NearlyEqual(bands[i].Low, bands[i+1].High, 1e-12) {
			return nil, fmt.Errorf("%w: bands %q and %q do not share a boundary",
				band.ErrInvalidBand, bands[i].Name, bands[i+1].Name)
		}
	}

	boundaries := band.Boundaries(bands)
	filters := make([]*zerophase.Filter, len(boundaries))
	for i, fc := range boundaries {
		f, err := zerophase.New(design.ButterworthLP(fc, cfg.order, 1), zerophase.WithPadding(cfg.padding))
		if err != nil {
			return nil, fmt.Errorf("filterbank: boundary %v: %w", fc, err)
		}
		filters[i] = f
	}

	return &Bank{
		bands:      bands,
		boundaries: boundaries,
		filters:    filters,
		order:      cfg.order,
		minCycles:  cfg.minCycles,
	}, nil
}

// Bands returns the resolved bands, shortest period first.
func (b *Bank) Bands() []band.Band { return b.bands }

// NumBands returns the number of bands.
func (b *Bank) NumBands() int { return len(b.bands) }

// Order returns the Butterworth order of the boundary filters.
func (b *Bank) Order() int { return b.order }

// Boundaries returns the interior cutoffs in ascending frequency order.
func (b *Bank) Boundaries() []float64 { return b.boundaries }

// MinLength returns the shortest series the bank will decompose: enough
// samples for the requested cycles of the longest boundary period, and
// never less than the zero-phase padding needs.
func (b *Bank) MinLength() int {
	min := 2
	for _, f := range b.filters {
		if m := f.MinInputLength(); m > min {
			min = m
		}
	}
	if len(b.boundaries) > 0 && b.minCycles > 0 {
		longest := 1 / b.boundaries[0]
		if m := int(math.Ceil(b.minCycles * longest)); m > min {
			min = m
		}
	}
	return min
}

// Decomposition is the result of splitting one series.
type Decomposition struct {
	// Mean is the removed series mean, reported separately from the
	// bands (DC itself belongs to no band).
	Mean float64

	// Bands holds one series per band, indexed like Bank.Bands.
	// They sum to the demeaned input exactly.
	Bands [][]float64
}

// Decompose splits x into bands. The input is left unmodified.
func (b *Bank) Decompose(x []float64) (*Decomposition, error) {
	n := len(x)
	if min := b.MinLength(); n < min {
		return nil, fmt.Errorf("%w: series has %d samples, bank needs at least %d", core.ErrInsufficientData, n, min)
	}
	if !core.AllFinite(x) {
		return nil, fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	}

	sum := 0.0
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(n)

	demeaned := make([]float64, n)
	for i, v := range x {
		demeaned[i] = v - mean
	}

	k := len(b.bands)
	bands := make([][]float64, k)
	if k == 1 {
		bands[0] = demeaned
		return &Decomposition{Mean: mean, Bands: bands}, nil
	}

	lps := make([][]float64, len(b.filters))
	for i, f := range b.filters {
		lp, err := f.Apply(demeaned)
		if err != nil {
			return nil, err
		}
		lps[i] = lp
	}

	// Highest band: everything above the top cutoff. Interior bands:
	// differences of adjacent lowpass outputs. Lowest band: the lowest
	// lowpass itself. The differences telescope back to the input.
	bands[0] = make([]float64, n)
	top := lps[len(lps)-1]
	for i := range demeaned {
		bands[0][i] = demeaned[i] - top[i]
	}
	for j := 1; j < k-1; j++ {
		hi := lps[len(lps)-j]
		lo := lps[len(lps)-j-1]
		out := make([]float64, n)
		for i := range out {
			out[i] = hi[i] - lo[i]
		}
		bands[j] = out
	}
	bands[k-1] = lps[0]

	return &Decomposition{Mean: mean, Bands: bands}, nil
}

// Reconstruct sums the mean and all bands back into a series.
func (d *Decomposition) Reconstruct() []float64 {
	if len(d.Bands) == 0 {
		return nil
	}

	out := make([]float64, len(d.Bands[0]))
	for i := range out {
		out[i] = d.Mean
	}
	for _, b := range d.Bands {
		for i, v := range b {
			out[i] += v
		}
	}
	return out
}

// ReconstructionError returns the maximum deviation between the
// reconstruction and x, relative to the largest magnitude in x.
func (d *Decomposition) ReconstructionError(x []float64) float64 {
	recon := d.Reconstruct()
	if len(recon) != len(x) {
		return math.Inf(1)
	}

	scale := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}
	if scale == 0 {
		scale = 1
	}

	worst := 0.0
	for i := range x {
		if d := math.Abs(recon[i] - x[i]); d > worst {
			worst = d
		}
	}
	return worst / scale
}

// BandVariance returns the variance (1/N convention) of band k.
func (d *Decomposition) BandVariance(k int) float64 {
	if k < 0 || k >= len(d.Bands) {
		return 0
	}

	s := d.Bands[k]
	if len(s) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range s {
		mean += v
	}
	mean /= float64(len(s))

	ss := 0.0
	for _, v := range s {
		dv := v - mean
		ss += dv * dv
	}
	return ss / float64(len(s))
}
