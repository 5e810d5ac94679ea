package seasonal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/spectral/core"
)

func tile(pattern []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}

func TestDecompose_PureSeasonal(t *testing.T) {
	pattern := []float64{1, 2, -1, -2}
	x := tile(pattern, 128)

	d, err := Decompose(x, 4)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	// The even-period window spans exactly one cycle, so the interior
	// trend of a pure seasonal series vanishes.
	for i := 2; i < len(x)-2; i++ {
		if math.Abs(d.Trend[i]) > 1e-12 {
			t.Fatalf("trend[%d] = %v, want 0", i, d.Trend[i])
		}
	}

	// Phase means recover the pattern up to small edge pollution.
	testutil.RequireSliceNearlyEqual(t, d.Seasonal[:4], pattern, 0.05)

	if s := d.SeasonalStrength(); s < 0.95 {
		t.Fatalf("SeasonalStrength = %v, want near 1", s)
	}
}

func TestDecompose_TrendPlusSeasonal(t *testing.T) {
	pattern := []float64{2, -1, 0, 1, -2}
	n := 125
	x := tile(pattern, n)
	for i := range x {
		x[i] += 0.1 * float64(i)
	}

	d, err := Decompose(x, 5)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	// A centered odd window reproduces a linear trend exactly away from
	// the edges, and the full-period span cancels the pattern.
	for i := 2; i < n-2; i++ {
		want := 0.1 * float64(i)
		if math.Abs(d.Trend[i]-want) > 1e-10 {
			t.Fatalf("trend[%d] = %v, want %v", i, d.Trend[i], want)
		}
	}

	testutil.RequireSliceNearlyEqual(t, d.Seasonal[:5], pattern, 0.05)

	if s := d.TrendStrength(); s < 0.9 {
		t.Fatalf("TrendStrength = %v, want near 1", s)
	}
	if s := d.SeasonalStrength(); s < 0.9 {
		t.Fatalf("SeasonalStrength = %v, want near 1", s)
	}

	// The three parts reassemble the input.
	for i := range x {
		got := d.Trend[i] + d.Seasonal[i] + d.Residual[i]
		if math.Abs(got-x[i]) > 1e-12 {
			t.Fatalf("index %d: parts sum to %v, want %v", i, got, x[i])
		}
	}
}

func TestDecompose_NoiseHasWeakSeasonality(t *testing.T) {
	x := testutil.SeededNoise(17, 1, 315)

	d, err := Decompose(x, 21)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	s := d.SeasonalStrength()
	if s < 0 || s > 0.5 {
		t.Fatalf("SeasonalStrength = %v, want weak for white noise", s)
	}
}

func TestDecompose_ZeroSeries(t *testing.T) {
	d, err := Decompose(make([]float64, 64), 4)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if s := d.SeasonalStrength(); s != 0 {
		t.Fatalf("SeasonalStrength = %v, want 0 for zero series", s)
	}
	if s := d.TrendStrength(); s != 0 {
		t.Fatalf("TrendStrength = %v, want 0 for zero series", s)
	}
}

func TestDecompose_Errors(t *testing.T) {
	x := testutil.SeededNoise(1, 1, 64)

	if _, err := Decompose(x, 1); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for period 1, got %v", err)
	}
	if _, err := Decompose(x, -4); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative period, got %v", err)
	}
	if _, err := Decompose(x[:9], 5); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for short series, got %v", err)
	}

	bad := append([]float64(nil), x...)
	bad[3] = math.NaN()
	if _, err := Decompose(bad, 4); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for NaN, got %v", err)
	}
}
