package zerophase

import (
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/filter/biquad"
)

// Padding selects how the input is extended before filtering.
type Padding int

const (
	// PadReflect extends the signal by odd reflection around the end
	// points: ext[i] = 2*x[0] - x[k]. First derivative stays continuous
	// across the edge, which keeps low-frequency transients small.
	PadReflect Padding = iota

	// PadConstant repeats the edge samples.
	PadConstant

	// PadNone filters the bare input.
	PadNone
)

// Option configures a Filter.
type Option func(*config)

type config struct {
	padding Padding
	padLen  int
}

// WithPadding selects the edge extension mode. Default is PadReflect.
func WithPadding(p Padding) Option {
	return func(c *config) {
		c.padding = p
	}
}

// WithPadLength overrides the number of samples extended on each side.
// The default is 3*(order+1). The length is clamped to len(x)-1 per call.
func WithPadLength(n int) Option {
	return func(c *config) {
		c.padLen = n
	}
}

// Filter applies a biquad cascade forward and backward over a block of
// samples, yielding a zero-phase filter with magnitude |H(f)|^2.
type Filter struct {
	chain   *biquad.Chain
	padding Padding
	padLen  int
}

// New builds a zero-phase filter from second-order sections, typically
// produced by the design package.
func New(sections []biquad.Coefficients, opts ...Option) (*Filter, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("zerophase: at least one filter section required")
	}

	chain := biquad.NewChain(sections)

	cfg := config{
		padding: PadReflect,
		padLen:  3 * (chain.Order() + 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.padLen < 0 {
		return nil, fmt.Errorf("zerophase: pad length must be non-negative, got %d", cfg.padLen)
	}
	if cfg.padding == PadNone {
		cfg.padLen = 0
	}

	return &Filter{
		chain:   chain,
		padding: cfg.padding,
		padLen:  cfg.padLen,
	}, nil
}

// PadLength returns the configured per-side extension length.
func (f *Filter) PadLength() int { return f.padLen }

// MinInputLength returns the shortest input that receives the full
// configured padding. Shorter inputs (down to 2 samples) are still
// processed, with the padding clamped to len(x)-1.
func (f *Filter) MinInputLength() int { return f.padLen + 1 }

// Chain returns the underlying cascade for response inspection.
func (f *Filter) Chain() *biquad.Chain { return f.chain }

// Apply filters x forward and backward and returns a new slice of the
// same length. The input is not modified. Inputs shorter than two
// samples return ErrInsufficientData.
func (f *Filter) Apply(x []float64) ([]float64, error) {
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: zero-phase filter needs at least 2 samples, got %d", core.ErrInsufficientData, n)
	}

	p := f.padLen
	if p > n-1 {
		p = n - 1
	}

	ext := make([]float64, p+n+p)
	copy(ext[p:], x)
	switch f.padding {
	case PadConstant:
		for i := 0; i < p; i++ {
			ext[i] = x[0]
			ext[p+n+i] = x[n-1]
		}
	case PadReflect:
		for i := 0; i < p; i++ {
			ext[i] = 2*x[0] - x[p-i]
			ext[p+n+i] = 2*x[n-1] - x[n-2-i]
		}
	}

	// Seed each pass with the steady state for the series mean. Seeding
	// from the edge sample instead would hand a near-DC cutoff an O(x)
	// startup transient with a decay time of 1/cutoff samples.
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	steady := f.chain.SetSteadyState(mean)
	f.chain.ProcessBlock(ext)

	core.Reverse(ext)
	f.chain.SetSteadyState(steady)
	f.chain.ProcessBlock(ext)
	core.Reverse(ext)

	out := make([]float64, n)
	copy(out, ext[p:p+n])

	return out, nil
}
