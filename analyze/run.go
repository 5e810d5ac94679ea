package analyze

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/cross"
	"github.com/cwbudde/algo-spectral/spectral/filterbank"
	"github.com/cwbudde/algo-spectral/spectral/psd"
	"github.com/cwbudde/algo-spectral/stats/returns"
)

// welchMinSegment mirrors the auto segment floor in psd.Welch so the
// eager resolution check sees the segment length the estimator will use.
const welchMinSegment = 64

// assetState carries one asset through the per-asset stage.
type assetState struct {
	dec   *filterbank.Decomposition
	est   *psd.Estimate // full-series periodogram, the cross-check grid
	vars  []float64     // spectral band variances
	mom   returns.Moments
	warns []Warning
	err   error
}

// pairState carries one asset pair through the per-pair stage.
type pairState struct {
	corrs []float64 // per-band time-domain Pearson
	warns []Warning
	err   error
}

// Run decomposes every series in m into the resolved bands and returns
// the per-asset and per-pair results. The matrix is borrowed read-only;
// a run is a pure function of its inputs and the Analyzer options.
func (a *Analyzer) Run(m Matrix, defs []band.Def, interval band.Interval) (*Result, error) {
	names, series, assetErrs, n, err := a.validate(m)
	if err != nil {
		return nil, err
	}

	bands, err := band.Resolve(defs, interval)
	if err != nil {
		return nil, err
	}

	banks, err := a.newBanks(bands, len(series))
	if err != nil {
		return nil, err
	}
	if min := banks[0].MinLength(); n < min {
		return nil, fmt.Errorf("%w: series has %d samples, the band filters need at least %d",
			core.ErrInsufficientData, n, min)
	}
	if err := a.checkResolution(bands, n); err != nil {
		return nil, err
	}

	states := make([]assetState, len(series))
	runIndexed(a.cfg.workers, len(series), func(worker, i int) {
		states[i] = a.analyzeAsset(banks[worker], names[i], series[i], bands)
	})
	for i := range states {
		if states[i].err != nil {
			return nil, fmt.Errorf("asset %q: %w", names[i], states[i].err)
		}
	}

	// Pairs grow quadratically with assets and dominate large runs.
	pairs := pairIndex(len(series))
	pstates := make([]pairState, len(pairs))
	runIndexed(a.cfg.workers, len(pairs), func(_, p int) {
		i, j := pairs[p][0], pairs[p][1]
		pstates[p] = a.analyzePair(names, series, states, bands, i, j)
	})
	for p := range pstates {
		if pstates[p].err != nil {
			i, j := pairs[p][0], pairs[p][1]
			return nil, fmt.Errorf("assets %q and %q: %w", names[i], names[j], pstates[p].err)
		}
	}

	return a.assemble(names, interval, bands, states, pairs, pstates, assetErrs), nil
}

// validate applies the structural checks and splits off non-finite
// assets. It returns the analyzable names and series in input order.
func (a *Analyzer) validate(m Matrix) ([]string, [][]float64, []AssetError, int, error) {
	if len(m.Assets) == 0 {
		return nil, nil, nil, 0, fmt.Errorf("%w: matrix has no assets", core.ErrInvalidInput)
	}
	if len(m.Assets) != len(m.Series) {
		return nil, nil, nil, 0, fmt.Errorf("%w: matrix has %d asset names for %d series",
			core.ErrInvalidInput, len(m.Assets), len(m.Series))
	}

	seen := make(map[string]struct{}, len(m.Assets))
	for i, name := range m.Assets {
		if name == "" {
			return nil, nil, nil, 0, fmt.Errorf("%w: asset %d has no name", core.ErrInvalidInput, i)
		}
		if _, dup := seen[name]; dup {
			return nil, nil, nil, 0, fmt.Errorf("%w: duplicate asset name %q", core.ErrInvalidInput, name)
		}
		seen[name] = struct{}{}
	}

	n := len(m.Series[0])
	for i, s := range m.Series {
		if len(s) != n {
			return nil, nil, nil, 0, fmt.Errorf("%w: asset %q has %d samples, want %d",
				core.ErrInvalidInput, m.Assets[i], len(s), n)
		}
	}

	if a.cfg.maxCells > 0 {
		if cells := len(m.Series) * n; cells > a.cfg.maxCells {
			return nil, nil, nil, 0, fmt.Errorf("%w: %d assets of %d samples is %d cells, limit is %d",
				ErrResourceLimit, len(m.Series), n, cells, a.cfg.maxCells)
		}
	}

	names := make([]string, 0, len(m.Assets))
	series := make([][]float64, 0, len(m.Series))
	var assetErrs []AssetError
	for i, s := range m.Series {
		if core.AllFinite(s) {
			names = append(names, m.Assets[i])
			series = append(series, s)
			continue
		}
		cause := fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
		if !a.cfg.partial {
			return nil, nil, nil, 0, fmt.Errorf("asset %q: %w", m.Assets[i], cause)
		}
		assetErrs = append(assetErrs, AssetError{Asset: m.Assets[i], Err: cause})
	}
	if len(series) == 0 {
		return nil, nil, nil, 0, fmt.Errorf("%w: no analyzable assets", core.ErrInvalidInput)
	}

	return names, series, assetErrs, n, nil
}

// newBanks builds one filter bank per worker. A Bank holds stateful
// filter chains, so workers must not share one.
func (a *Analyzer) newBanks(bands []band.Band, assets int) ([]*filterbank.Bank, error) {
	workers := a.cfg.workers
	if workers > assets {
		workers = assets
	}

	banks := make([]*filterbank.Bank, workers)
	for w := range banks {
		b, err := filterbank.New(bands,
			filterbank.WithOrder(a.cfg.order),
			filterbank.WithMinCycles(a.cfg.minCycles))
		if err != nil {
			return nil, err
		}
		banks[w] = b
	}
	return banks, nil
}

// checkResolution rejects runs whose spectral estimates cannot resolve
// every band: the estimator grid spaces bins 1/resLen apart, and a band
// narrower than that would integrate at most one ordinate.
func (a *Analyzer) checkResolution(bands []band.Band, n int) error {
	resLen := n
	if a.cfg.welch {
		segLen := a.cfg.welchSegment
		switch {
		case segLen == 0:
			segLen = n / 4
			if segLen < welchMinSegment {
				segLen = welchMinSegment
			}
			if segLen > n {
				segLen = n
			}
		case segLen > n:
			return fmt.Errorf("%w: series has %d samples, segments need %d",
				core.ErrInsufficientData, n, segLen)
		}
		resLen = segLen
	}

	res := 1 / float64(resLen)
	for _, b := range bands {
		if b.Width() < res {
			return fmt.Errorf("%w: band %q spans %.4g of the spectrum, but %d samples resolve only %.4g",
				core.ErrInsufficientData, b.Name, b.Width(), resLen, res)
		}
	}
	return nil
}

func (a *Analyzer) analyzeAsset(bank *filterbank.Bank, name string, x []float64, bands []band.Band) assetState {
	var st assetState

	dec, err := bank.Decompose(x)
	if err != nil {
		st.err = err
		return st
	}
	st.dec = dec

	est, err := psd.Periodogram(x, psd.WithWindow(a.cfg.windowType))
	if err != nil {
		st.err = fmt.Errorf("periodogram: %w", err)
		return st
	}
	st.est = est

	varEst := est
	if a.cfg.welch {
		varEst, err = psd.Welch(x,
			psd.WithWindow(a.cfg.windowType),
			psd.WithSegmentLength(a.cfg.welchSegment),
			psd.WithOverlap(a.cfg.welchOverlap))
		if err != nil {
			st.err = fmt.Errorf("welch: %w", err)
			return st
		}
	}
	st.vars, err = varEst.BandPowers(bands)
	if err != nil {
		st.err = fmt.Errorf("band powers: %w", err)
		return st
	}

	st.mom = returns.Calculate(x)
	st.warns = a.assetWarnings(name, x, &st, bands)
	return st
}

// assetWarnings runs the per-asset consistency checks.
func (a *Analyzer) assetWarnings(name string, x []float64, st *assetState, bands []band.Band) []Warning {
	var warns []Warning

	if std := st.mom.StdDev; std > 0 {
		recon := st.dec.Reconstruct()
		maxDev := 0.0
		for i := range x {
			if dev := math.Abs(x[i] - recon[i]); dev > maxDev {
				maxDev = dev
			}
		}
		if rel := maxDev / std; rel > a.cfg.reconTol {
			warns = append(warns, Warning{
				Kind: WarnReconstruction, Asset: name,
				Value: rel, Tolerance: a.cfg.reconTol,
			})
		}
	}

	if tv := st.mom.Variance; tv > 0 {
		sum := 0.0
		for _, v := range st.vars {
			sum += v
		}
		if rel := math.Abs(sum-tv) / tv; rel > a.cfg.varTol {
			warns = append(warns, Warning{
				Kind: WarnVarianceAdditivity, Asset: name,
				Value: rel, Tolerance: a.cfg.varTol,
			})
		}
		for k := range bands {
			if rel := math.Abs(st.vars[k]-st.dec.BandVariance(k)) / tv; rel > a.cfg.varTol {
				warns = append(warns, Warning{
					Kind: WarnBandVariance, Asset: name, Band: bands[k].Name,
					Value: rel, Tolerance: a.cfg.varTol,
				})
			}
		}
	}

	return warns
}

func (a *Analyzer) analyzePair(names []string, series [][]float64, states []assetState, bands []band.Band, i, j int) pairState {
	var ps pairState

	cs, err := cross.Spectrum(series[i], series[j], cross.WithWindow(a.cfg.windowType))
	if err != nil {
		ps.err = fmt.Errorf("cross-spectrum: %w", err)
		return ps
	}

	pair := names[i] + "/" + names[j]
	ps.corrs = make([]float64, len(bands))
	for k, b := range bands {
		primary := returns.Correlation(states[i].dec.Bands[k], states[j].dec.Bands[k])
		ps.corrs[k] = primary

		check, err := cross.BandCorrelation(cs, states[i].est, states[j].est, b)
		if err != nil {
			ps.err = fmt.Errorf("band %q correlation check: %w", b.Name, err)
			return ps
		}
		if dev := math.Abs(primary - check); dev > a.cfg.corrTol {
			ps.warns = append(ps.warns, Warning{
				Kind: WarnCorrelation, Asset: pair, Band: b.Name,
				Value: dev, Tolerance: a.cfg.corrTol,
			})
		}
	}

	return ps
}

// pairIndex enumerates the upper triangle in row order.
func pairIndex(n int) [][2]int {
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// assemble flattens the stage outputs into a Result. Warnings keep a
// deterministic order: assets in input order, then pairs in row order.
func (a *Analyzer) assemble(names []string, interval band.Interval, bands []band.Band,
	states []assetState, pairs [][2]int, pstates []pairState, assetErrs []AssetError) *Result {

	res := &Result{
		Interval:      interval,
		Bands:         bands,
		Assets:        names,
		Means:         make([]float64, len(names)),
		Filtered:      make([][][]float64, len(names)),
		BandVariance:  make([][]float64, len(names)),
		TotalVariance: make([]float64, len(names)),
		Summaries:     make([]Summary, len(names)),
		AssetErrors:   assetErrs,
	}

	ppy := a.cfg.annual
	if ppy == 0 {
		ppy = interval.PeriodsPerYear()
	}

	for i := range states {
		st := &states[i]
		res.Means[i] = st.dec.Mean
		res.Filtered[i] = st.dec.Bands
		res.BandVariance[i] = st.vars
		res.TotalVariance[i] = st.mom.Variance
		res.Summaries[i] = a.summarize(names[i], st, ppy)
		res.Warnings = append(res.Warnings, st.warns...)
	}

	res.Correlations = make([]CorrelationMatrix, len(bands))
	for k := range bands {
		values := make([][]float64, len(names))
		for i := range values {
			values[i] = make([]float64, len(names))
			values[i][i] = 1
		}
		res.Correlations[k] = CorrelationMatrix{Band: bands[k].Name, Assets: names, Values: values}
	}
	for p, pair := range pairs {
		i, j := pair[0], pair[1]
		for k, r := range pstates[p].corrs {
			res.Correlations[k].Values[i][j] = r
			res.Correlations[k].Values[j][i] = r
		}
	}
	for p := range pstates {
		res.Warnings = append(res.Warnings, pstates[p].warns...)
	}

	return res
}

func (a *Analyzer) summarize(name string, st *assetState, ppy float64) Summary {
	shares := make([]float64, len(st.vars))
	total := 0.0
	for _, v := range st.vars {
		total += v
	}
	if total > 0 {
		for k, v := range st.vars {
			shares[k] = v / total
		}
	}

	return Summary{
		Asset:                name,
		Mean:                 st.mom.Mean,
		AnnualizedReturn:     returns.AnnualizedReturn(st.mom.Mean, ppy),
		Volatility:           st.mom.StdDev,
		AnnualizedVolatility: returns.AnnualizedVolatility(st.mom.StdDev, ppy),
		Sharpe:               returns.SharpeRatio(st.mom.Mean, st.mom.StdDev, ppy),
		Skewness:             st.mom.Skewness,
		Kurtosis:             st.mom.Kurtosis,
		BandShare:            shares,
	}
}
