package analyze

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/window"
)

func newAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	a, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// smallBands is a two-band ladder usable with short series.
func smallBands() []band.Def {
	return []band.Def{
		{Name: "fast", Shortest: band.Samples(4), Longest: band.Samples(16)},
		{Name: "slow", Shortest: band.Samples(16)},
	}
}

// smallMatrix builds two assets whose sines land in opposite smallBands
// bands.
func smallMatrix(n int) Matrix {
	return Matrix{
		Assets: []string{"FAST", "SLOW"},
		Series: [][]float64{
			testutil.Mix(testutil.SinePeriod(8, 1, n), testutil.SeededNoise(101, 0.05, n)),
			testutil.Mix(testutil.SinePeriod(24, 1, n), testutil.SeededNoise(102, 0.05, n)),
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	a := newAnalyzer(t)

	if a.cfg.order != defaultOrder {
		t.Errorf("default order = %d, want %d", a.cfg.order, defaultOrder)
	}
	if a.cfg.windowType != window.TypeHann {
		t.Errorf("default window = %v, want %v", a.cfg.windowType, window.TypeHann)
	}
	if a.cfg.workers < 1 {
		t.Errorf("default workers = %d, want at least 1", a.cfg.workers)
	}
	if a.cfg.maxCells != defaultMaxCells {
		t.Errorf("default max cells = %d, want %d", a.cfg.maxCells, defaultMaxCells)
	}
	if a.cfg.welch {
		t.Error("welch should default to off")
	}
}

func TestNew_OptionErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"zero order", []Option{WithFilterOrder(0)}},
		{"unknown window", []Option{WithWindow(window.Type(99))}},
		{"negative min cycles", []Option{WithMinCycles(-1)}},
		{"zero reconstruction tolerance", []Option{WithReconstructionTolerance(0)}},
		{"negative variance tolerance", []Option{WithVarianceTolerance(-0.1)}},
		{"nan correlation tolerance", []Option{WithCorrelationTolerance(math.NaN())}},
		{"negative annualization", []Option{WithAnnualization(-252)}},
		{"zero workers", []Option{WithWorkers(0)}},
		{"welch segment too short", []Option{WithWelch(1, 0.5)}},
		{"welch overlap too high", []Option{WithWelch(256, 1)}},
		{"welch overlap negative", []Option{WithWelch(256, -0.1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), "analyze:") {
				t.Errorf("error %q does not name the package", err)
			}
		})
	}
}

func TestRun_InputErrors(t *testing.T) {
	m := smallMatrix(128)
	cases := []struct {
		name string
		m    Matrix
	}{
		{"no assets", Matrix{}},
		{"name count mismatch", Matrix{Assets: []string{"A"}, Series: m.Series}},
		{"empty name", Matrix{Assets: []string{"A", ""}, Series: m.Series}},
		{"duplicate names", Matrix{Assets: []string{"A", "A"}, Series: m.Series}},
		{"unequal lengths", Matrix{Assets: []string{"A", "B"}, Series: [][]float64{m.Series[0], m.Series[1][:64]}}},
	}

	a := newAnalyzer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Run(tc.m, smallBands(), band.IntervalDaily)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("Run error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRun_ResourceLimit(t *testing.T) {
	m := smallMatrix(128)

	capped := newAnalyzer(t, WithMaxCells(100))
	if _, err := capped.Run(m, smallBands(), band.IntervalDaily); !errors.Is(err, ErrResourceLimit) {
		t.Fatalf("Run error = %v, want ErrResourceLimit", err)
	}

	unlimited := newAnalyzer(t, WithMaxCells(-1))
	if _, err := unlimited.Run(m, smallBands(), band.IntervalDaily); err != nil {
		t.Fatalf("Run with the cap removed: %v", err)
	}
}

func TestRun_MinimumLength(t *testing.T) {
	m := Matrix{Assets: []string{"A"}, Series: [][]float64{testutil.SinePeriod(4, 1, 10)}}

	_, err := newAnalyzer(t).Run(m, band.DefaultBands(band.IntervalDaily), band.IntervalDaily)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("Run error = %v, want ErrInsufficientData", err)
	}
}

func TestRun_ResolutionGuard(t *testing.T) {
	n := 1250
	m := Matrix{
		Assets: []string{"A"},
		Series: [][]float64{testutil.Mix(testutil.SinePeriod(20, 1, n), testutil.SeededNoise(103, 0.05, n))},
	}
	defs := band.DefaultBands(band.IntervalDaily)

	// 256-sample segments space bins 1/256 apart, far wider than the
	// cycle band (and the trend band behind it).
	_, err := newAnalyzer(t, WithWelch(256, 0.5)).Run(m, defs, band.IntervalDaily)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("Run error = %v, want ErrInsufficientData", err)
	}
	if !strings.Contains(err.Error(), `"cycle"`) {
		t.Errorf("error %q does not name the unresolvable band", err)
	}

	_, err = newAnalyzer(t, WithWelch(4096, 0.5)).Run(m, defs, band.IntervalDaily)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("oversized segment error = %v, want ErrInsufficientData", err)
	}
}

func TestRun_PartialResults(t *testing.T) {
	n := 128
	good := testutil.Mix(testutil.SinePeriod(8, 1, n), testutil.SeededNoise(104, 0.05, n))
	bad := testutil.SinePeriod(8, 1, n)
	bad[17] = math.NaN()
	other := testutil.Mix(testutil.SinePeriod(24, 1, n), testutil.SeededNoise(105, 0.05, n))
	m := Matrix{Assets: []string{"GOOD", "BAD", "OTHER"}, Series: [][]float64{good, bad, other}}

	_, err := newAnalyzer(t).Run(m, smallBands(), band.IntervalDaily)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Run error = %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), `asset "BAD"`) {
		t.Errorf("error %q does not attribute the asset", err)
	}

	res, err := newAnalyzer(t, WithPartialResults()).Run(m, smallBands(), band.IntervalDaily)
	if err != nil {
		t.Fatalf("partial Run: %v", err)
	}
	if want := []string{"GOOD", "OTHER"}; !reflect.DeepEqual(res.Assets, want) {
		t.Errorf("Assets = %v, want %v", res.Assets, want)
	}
	if len(res.AssetErrors) != 1 || res.AssetErrors[0].Asset != "BAD" {
		t.Fatalf("AssetErrors = %v, want one entry for BAD", res.AssetErrors)
	}
	if !errors.Is(res.AssetErrors[0], core.ErrInvalidInput) {
		t.Errorf("AssetErrors[0] = %v, want ErrInvalidInput", res.AssetErrors[0])
	}
	for _, cm := range res.Correlations {
		if len(cm.Values) != 2 {
			t.Fatalf("band %q matrix has %d rows, want 2", cm.Band, len(cm.Values))
		}
	}

	allBad := Matrix{Assets: []string{"X"}, Series: [][]float64{bad}}
	_, err = newAnalyzer(t, WithPartialResults()).Run(allBad, smallBands(), band.IntervalDaily)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("all-dropped Run error = %v, want ErrInvalidInput", err)
	}
}

func TestRun_Determinism(t *testing.T) {
	n := 1250
	m := Matrix{
		Assets: []string{"A", "B", "C"},
		Series: [][]float64{
			testutil.Mix(testutil.SinePeriod(20, 1, n), testutil.SeededNoise(106, 0.05, n)),
			testutil.Mix(testutil.SinePeriod(252, 1, n), testutil.SeededNoise(107, 0.05, n)),
			testutil.SeededNoise(108, 0.5, n),
		},
	}
	defs := band.DefaultBands(band.IntervalDaily)

	serial, err := newAnalyzer(t, WithWorkers(1)).Run(m, defs, band.IntervalDaily)
	if err != nil {
		t.Fatalf("serial Run: %v", err)
	}
	parallel, err := newAnalyzer(t, WithWorkers(8)).Run(m, defs, band.IntervalDaily)
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Fatal("workers=1 and workers=8 results disagree")
	}
}

func TestRunIndexed(t *testing.T) {
	out := make([]int, 100)
	runIndexed(8, len(out), func(worker, i int) {
		if worker < 0 || worker >= 8 {
			t.Errorf("worker id %d out of range", worker)
		}
		out[i] = i + 1
	})
	for i, v := range out {
		if v != i+1 {
			t.Fatalf("index %d was not visited", i)
		}
	}

	runIndexed(1, 3, func(worker, i int) {
		if worker != 0 {
			t.Errorf("serial worker id = %d, want 0", worker)
		}
	})

	runIndexed(4, 0, func(worker, i int) {
		t.Error("callback invoked for an empty range")
	})
}

func TestWarningString(t *testing.T) {
	w := Warning{Kind: WarnBandVariance, Asset: "A", Band: "short", Value: 0.08, Tolerance: 0.05}
	got := w.String()
	for _, want := range []string{"band variance", `asset "A"`, `band "short"`, "0.08", "0.05"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}

	recon := Warning{Kind: WarnReconstruction, Asset: "B", Value: 2e-5, Tolerance: 1e-6}
	if s := recon.String(); strings.Contains(s, "band") {
		t.Errorf("asset-level warning %q should not mention a band", s)
	}

	pair := Warning{Kind: WarnCorrelation, Asset: "A/B", Band: "short", Value: 0.3, Tolerance: 0.15}
	if s := pair.String(); !strings.Contains(s, `asset "A/B"`) {
		t.Errorf("pair warning %q does not name the pair", s)
	}
}

func TestAssetError(t *testing.T) {
	cause := fmt.Errorf("%w: series contains NaN or Inf", core.ErrInvalidInput)
	ae := AssetError{Asset: "BAD", Err: cause}

	if got := ae.Error(); !strings.Contains(got, `asset "BAD"`) {
		t.Errorf("Error() = %q, want the asset named", got)
	}
	if !errors.Is(ae, core.ErrInvalidInput) {
		t.Error("AssetError should unwrap to its cause")
	}
}
