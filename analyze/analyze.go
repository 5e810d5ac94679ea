package analyze

import (
	"fmt"
	"math"
	"runtime"

	"github.com/cwbudde/algo-spectral/spectral/window"
)

const (
	defaultOrder     = 4
	defaultMinCycles = 1.0
	defaultReconTol  = 1e-6
	defaultVarTol    = 0.05
	defaultCorrTol   = 0.15
	defaultMaxCells  = 1 << 24
)

type config struct {
	order        int
	windowType   window.Type
	minCycles    float64
	reconTol     float64
	varTol       float64
	corrTol      float64
	annual       float64
	workers      int
	maxCells     int
	partial      bool
	welch        bool
	welchSegment int
	welchOverlap float64
}

func defaultConfig() config {
	return config{
		order:      defaultOrder,
		windowType: window.TypeHann,
		minCycles:  defaultMinCycles,
		reconTol:   defaultReconTol,
		varTol:     defaultVarTol,
		corrTol:    defaultCorrTol,
		workers:    runtime.GOMAXPROCS(0),
		maxCells:   defaultMaxCells,
	}
}

// Option configures an Analyzer.
type Option func(*config)

// WithFilterOrder sets the Butterworth order of the band-splitting
// filters. Defaults to 4.
func WithFilterOrder(n int) Option {
	return func(cfg *config) {
		cfg.order = n
	}
}

// WithWindow sets the taper used for every spectral estimate. Defaults
// to the Hann window.
func WithWindow(t window.Type) Option {
	return func(cfg *config) {
		cfg.windowType = t
	}
}

// WithMinCycles sets how many full cycles of the longest interior band
// boundary the series must cover, forwarded to the filter bank.
// Defaults to 1.
func WithMinCycles(c float64) Option {
	return func(cfg *config) {
		cfg.minCycles = c
	}
}

// WithReconstructionTolerance sets the allowed deviation between the
// input and mean plus summed band series, relative to the series
// standard deviation, before a warning is issued. Defaults to 1e-6.
func WithReconstructionTolerance(tol float64) Option {
	return func(cfg *config) {
		cfg.reconTol = tol
	}
}

// WithVarianceTolerance sets the allowed relative disagreement between
// spectral and time-domain variances before a warning is issued.
// Defaults to 0.05.
func WithVarianceTolerance(tol float64) Option {
	return func(cfg *config) {
		cfg.varTol = tol
	}
}

// WithCorrelationTolerance sets the allowed disagreement between the
// time-domain and cross-spectral band correlations before a warning is
// issued. Defaults to 0.15.
func WithCorrelationTolerance(tol float64) Option {
	return func(cfg *config) {
		cfg.corrTol = tol
	}
}

// WithAnnualization overrides the periods-per-year factor used by the
// risk-return summaries. Zero derives the factor from the run interval.
func WithAnnualization(periodsPerYear float64) Option {
	return func(cfg *config) {
		cfg.annual = periodsPerYear
	}
}

// WithWorkers sets the goroutine count for the per-asset and per-pair
// stages. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// WithMaxCells caps the assets times samples a run will accept. Zero
// keeps the default of 16,777,216 cells; a negative value removes the
// cap.
func WithMaxCells(n int) Option {
	return func(cfg *config) {
		if n != 0 {
			cfg.maxCells = n
		}
	}
}

// WithPartialResults drops assets whose series fail validation and
// records them in Result.AssetErrors instead of failing the run.
func WithPartialResults() Option {
	return func(cfg *config) {
		cfg.partial = true
	}
}

// WithWelch switches the variance estimates from the full-series
// periodogram to Welch segment averaging. A zero segment picks n/4. The
// cross-spectral correlation check keeps using the full series either
// way, so its frequency grid stays aligned with the cross-spectrum.
func WithWelch(segment int, overlap float64) Option {
	return func(cfg *config) {
		cfg.welch = true
		cfg.welchSegment = segment
		cfg.welchOverlap = overlap
	}
}

// Analyzer runs the decomposition pipeline with a fixed configuration.
// It is immutable after New; Run is safe for concurrent use on distinct
// inputs.
type Analyzer struct {
	cfg config
}

// New validates the options and returns an Analyzer.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.order < 1 {
		return nil, fmt.Errorf("analyze: filter order must be at least 1, got %d", cfg.order)
	}
	if cfg.windowType < window.TypeRectangular || cfg.windowType > window.TypeFlatTop {
		return nil, fmt.Errorf("analyze: unknown window %v", cfg.windowType)
	}
	if cfg.minCycles < 0 || math.IsNaN(cfg.minCycles) || math.IsInf(cfg.minCycles, 0) {
		return nil, fmt.Errorf("analyze: min cycles must be finite and non-negative, got %v", cfg.minCycles)
	}
	if cfg.reconTol <= 0 || math.IsNaN(cfg.reconTol) || math.IsInf(cfg.reconTol, 0) {
		return nil, fmt.Errorf("analyze: reconstruction tolerance must be positive and finite, got %v", cfg.reconTol)
	}
	if cfg.varTol <= 0 || math.IsNaN(cfg.varTol) || math.IsInf(cfg.varTol, 0) {
		return nil, fmt.Errorf("analyze: variance tolerance must be positive and finite, got %v", cfg.varTol)
	}
	if cfg.corrTol <= 0 || math.IsNaN(cfg.corrTol) || math.IsInf(cfg.corrTol, 0) {
		return nil, fmt.Errorf("analyze: correlation tolerance must be positive and finite, got %v", cfg.corrTol)
	}
	if cfg.annual < 0 || math.IsNaN(cfg.annual) || math.IsInf(cfg.annual, 0) {
		return nil, fmt.Errorf("analyze: annualization must be finite and non-negative, got %v", cfg.annual)
	}
	if cfg.workers < 1 {
		return nil, fmt.Errorf("analyze: workers must be at least 1, got %d", cfg.workers)
	}
	if cfg.welch {
		if cfg.welchSegment != 0 && cfg.welchSegment < 2 {
			return nil, fmt.Errorf("analyze: welch segment must be at least 2, got %d", cfg.welchSegment)
		}
		if math.IsNaN(cfg.welchOverlap) || cfg.welchOverlap < 0 || cfg.welchOverlap >= 1 {
			return nil, fmt.Errorf("analyze: welch overlap must be in [0, 1), got %v", cfg.welchOverlap)
		}
	}

	return &Analyzer{cfg: cfg}, nil
}
