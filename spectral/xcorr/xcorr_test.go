package xcorr

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/spectral/band"
	"github.com/cwbudde/algo-spectral/spectral/core"
	"github.com/cwbudde/algo-spectral/spectral/filterbank"
)

func TestCorrelate_KnownValues(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 1}

	got, err := Correlate(a, b)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}

	// Lags -1..2 by hand: [1, 1+2, 2+3, 3].
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 3, 5, 3}, 0)

	if lag := LagFromIndex(0, len(b)); lag != -1 {
		t.Fatalf("first lag = %d, want -1", lag)
	}
	if lag := LagFromIndex(len(got)-1, len(b)); lag != 2 {
		t.Fatalf("last lag = %d, want 2", lag)
	}
}

func TestCorrelateFFT_MatchesDirect(t *testing.T) {
	a := testutil.SeededNoise(31, 1, 200)
	b := testutil.SeededNoise(32, 1, 150)

	direct, err := Correlate(a, b)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	fft, err := CorrelateFFT(a, b)
	if err != nil {
		t.Fatalf("CorrelateFFT: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, fft, direct, 1e-9)
}

func TestCorrelateNormalized_DelayedCopyPeak(t *testing.T) {
	b := testutil.SeededNoise(33, 1, 250)
	a := make([]float64, 255)
	copy(a[5:], b)

	corr, err := CorrelateNormalized(a, b)
	if err != nil {
		t.Fatalf("CorrelateNormalized: %v", err)
	}

	idx, peak := FindPeak(corr)
	if lag := LagFromIndex(idx, len(b)); lag != 5 {
		t.Fatalf("peak lag = %d, want 5", lag)
	}
	if math.Abs(peak-1) > 1e-12 {
		t.Fatalf("peak value = %v, want 1 for a shifted copy", peak)
	}
	for i, v := range corr {
		if v > 1+1e-12 || v < -1-1e-12 {
			t.Fatalf("index %d: normalized value %v outside [-1, 1]", i, v)
		}
	}
}

func TestFilteredBandAlignsAtLagZero(t *testing.T) {
	x := testutil.Mix(
		testutil.SinePeriod(20, 1, 1250),
		testutil.SeededNoise(34, 0.3, 1250),
	)

	bands, err := band.Resolve(band.DefaultBands(band.IntervalDaily), band.IntervalDaily)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	bank, err := filterbank.New(bands)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dec, err := bank.Decompose(x)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	// Zero-phase filtering leaves the band content aligned with the
	// input, so the correlation peak sits at lag 0.
	corr, err := CorrelateNormalized(dec.Bands[0], x)
	if err != nil {
		t.Fatalf("CorrelateNormalized: %v", err)
	}
	idx, peak := FindPeak(corr)
	if lag := LagFromIndex(idx, len(x)); lag != 0 {
		t.Fatalf("peak lag = %d, want 0 for zero-phase output", lag)
	}
	if peak <= 0 {
		t.Fatalf("peak value = %v, want positive", peak)
	}
}

func TestFindPeak_Empty(t *testing.T) {
	idx, val := FindPeak(nil)
	if idx != -1 || val != 0 {
		t.Fatalf("FindPeak(nil) = (%d, %v), want (-1, 0)", idx, val)
	}
}

func TestLagIndexRoundTrip(t *testing.T) {
	for _, lag := range []int{-149, -1, 0, 1, 42, 199} {
		if got := LagFromIndex(IndexFromLag(lag, 150), 150); got != lag {
			t.Fatalf("round trip of lag %d gave %d", lag, got)
		}
	}
}

func TestCorrelate_Errors(t *testing.T) {
	x := []float64{1, 2, 3}

	if _, err := Correlate(nil, x); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty a, got %v", err)
	}
	if _, err := Correlate(x, nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty b, got %v", err)
	}
	if _, err := CorrelateFFT(nil, x); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty a, got %v", err)
	}
	if _, err := CorrelateFFT(x, nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty b, got %v", err)
	}
}
