package analyze

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/band"
)

// ErrResourceLimit reports that a run would exceed the configured
// assets times samples ceiling.
var ErrResourceLimit = errors.New("analyze: resource limit exceeded")

// Matrix is the engine input: one return series per asset, all of equal
// length. Row alignment across assets is the caller's contract. Run
// borrows the matrix read-only.
type Matrix struct {
	Assets []string
	Series [][]float64
}

// Result holds everything a run produces. Asset-indexed slices follow
// Assets, which preserves the input order minus any assets dropped
// under partial mode.
type Result struct {
	Interval band.Interval
	Bands    []band.Band
	Assets   []string

	// Means holds the removed per-asset series means. DC belongs to no
	// band, so it is reported here instead.
	Means []float64

	// Filtered holds the zero-phase band series, indexed by asset, band
	// and time.
	Filtered [][][]float64

	// BandVariance holds the spectral band powers per asset and band;
	// TotalVariance holds the time-domain population variance they
	// should sum to.
	BandVariance  [][]float64
	TotalVariance []float64

	// Correlations holds one matrix per band, ordered like Bands.
	Correlations []CorrelationMatrix

	Summaries []Summary
	Warnings  []Warning

	// AssetErrors lists the assets dropped under partial mode.
	AssetErrors []AssetError
}

// CorrelationMatrix is a symmetric per-band correlation matrix with a
// unit diagonal.
type CorrelationMatrix struct {
	Band   string
	Assets []string
	Values [][]float64
}

// At returns the correlation between assets i and j.
func (m CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Summary aggregates the per-asset risk-return figures.
type Summary struct {
	Asset                string
	Mean                 float64
	AnnualizedReturn     float64
	Volatility           float64
	AnnualizedVolatility float64
	Sharpe               float64
	Skewness             float64
	Kurtosis             float64

	// BandShare is each band's fraction of the summed band variance,
	// ordered like Result.Bands.
	BandShare []float64
}

// WarningKind labels a consistency check.
type WarningKind int

const (
	// WarnReconstruction reports that mean plus summed band series fail
	// to rebuild the input within tolerance.
	WarnReconstruction WarningKind = iota

	// WarnVarianceAdditivity reports that the summed band variances
	// disagree with the time-domain variance.
	WarnVarianceAdditivity

	// WarnBandVariance reports that a band's spectral power disagrees
	// with the variance of its filtered series.
	WarnBandVariance

	// WarnCorrelation reports that the time-domain and cross-spectral
	// band correlations disagree for an asset pair.
	WarnCorrelation
)

func (k WarningKind) String() string {
	switch k {
	case WarnReconstruction:
		return "reconstruction"
	case WarnVarianceAdditivity:
		return "variance additivity"
	case WarnBandVariance:
		return "band variance"
	case WarnCorrelation:
		return "correlation"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning records a failed consistency check. Warnings surface next to
// the results they question and never fail a run.
type Warning struct {
	Kind  WarningKind
	Asset string
	Band  string

	// Value is the observed deviation and Tolerance the configured
	// ceiling it exceeded.
	Value     float64
	Tolerance float64
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: asset %q", w.Kind, w.Asset)
	if w.Band != "" {
		s += fmt.Sprintf(", band %q", w.Band)
	}
	return s + fmt.Sprintf(": %.4g exceeds tolerance %.4g", w.Value, w.Tolerance)
}

// AssetError attributes a per-asset failure recorded under partial mode.
type AssetError struct {
	Asset string
	Err   error
}

func (e AssetError) Error() string { return fmt.Sprintf("asset %q: %v", e.Asset, e.Err) }

func (e AssetError) Unwrap() error { return e.Err }
