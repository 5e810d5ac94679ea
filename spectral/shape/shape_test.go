package shape

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/spectral/psd"
	"github.com/cwbudde/algo-spectral/spectral/window"
)

// syntheticEstimate builds an estimate on a uniform grid from DC to
// Nyquist with the given density ordinates.
func syntheticEstimate(power []float64) *psd.Estimate {
	n := len(power)
	freqs := make([]float64, n)
	df := 0.5 / float64(n-1)
	for i := range freqs {
		freqs[i] = float64(i) * df
	}
	return &psd.Estimate{Freqs: freqs, Power: power, N: 2 * (n - 1)}
}

func periodogram(t *testing.T, x []float64) *psd.Estimate {
	t.Helper()
	est, err := psd.Periodogram(x)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}
	return est
}

func TestDescribeDegenerate(t *testing.T) {
	if got := Describe(nil); got != (Stats{}) {
		t.Fatalf("Describe(nil) = %+v, want zero value", got)
	}

	short := syntheticEstimate([]float64{1, 1})
	short.Power = short.Power[:1]
	short.Freqs = short.Freqs[:1]
	if got := Describe(short); got != (Stats{}) {
		t.Fatalf("Describe on one bin = %+v, want zero value", got)
	}
}

func TestDescribeZeroPower(t *testing.T) {
	// A constant series is removed entirely by demeaning, so every
	// ordinate is zero and no descriptor has a defined location.
	est := periodogram(t, testutil.Constant(3.5, 256))

	if got := Describe(est); got != (Stats{}) {
		t.Fatalf("Describe on zero power = %+v, want zero value", got)
	}
	if got := Rolloff(est, 0.5); got != 0 {
		t.Fatalf("Rolloff on zero power = %v, want 0", got)
	}
}

func TestDescribeSingleSpike(t *testing.T) {
	// Six grid points 0.1 apart with all power at 0.2.
	power := make([]float64, 6)
	power[2] = 4
	est := syntheticEstimate(power)

	s := Describe(est)
	testutil.RequireNearlyEqual(t, s.Centroid, 0.2, 1e-15)
	testutil.RequireNearlyEqual(t, s.Spread, 0, 1e-15)
	if s.Flatness != 0 {
		t.Fatalf("Flatness = %v, want 0 for a single spike", s.Flatness)
	}
	testutil.RequireNearlyEqual(t, s.Peak, 0.2, 1e-15)

	// The lobe crosses half power midway to each zero neighbor.
	testutil.RequireNearlyEqual(t, s.PeakWidth, 0.1, 1e-12)

	// Cumulative power reaches any fraction one step past the spike.
	testutil.RequireNearlyEqual(t, s.Rolloff, 0.3, 1e-12)
}

func TestDescribeFlatSpectrum(t *testing.T) {
	est := syntheticEstimate([]float64{1, 1, 1, 1, 1, 1})

	s := Describe(est)
	testutil.RequireNearlyEqual(t, s.Centroid, 0.25, 1e-12)
	testutil.RequireNearlyEqual(t, s.Flatness, 1, 1e-12)

	// Standard deviation of the grid frequencies themselves.
	wantSpread := 0.0
	for _, f := range est.Freqs {
		d := f - 0.25
		wantSpread += d * d
	}
	wantSpread = math.Sqrt(wantSpread / 6)
	testutil.RequireNearlyEqual(t, s.Spread, wantSpread, 1e-12)

	// Peak stays at the first of the tied ordinates and its lobe
	// never drops below half power, so the width spans the grid.
	testutil.RequireNearlyEqual(t, s.Peak, 0, 1e-15)
	testutil.RequireNearlyEqual(t, s.PeakWidth, 0.5, 1e-12)
}

func TestRolloffFractions(t *testing.T) {
	est := syntheticEstimate([]float64{1, 1, 1, 1, 1, 1})

	// Cumulative trapezoid steps 0.1, 0.2, ... 0.5 across the grid.
	testutil.RequireNearlyEqual(t, Rolloff(est, 0.5), 0.3, 1e-12)
	testutil.RequireNearlyEqual(t, Rolloff(est, 1), 0.5, 1e-12)

	lo := Rolloff(est, 0.2)
	hi := Rolloff(est, 0.8)
	if lo >= hi {
		t.Fatalf("Rolloff not monotone: frac 0.2 gives %v, frac 0.8 gives %v", lo, hi)
	}
}

func TestDescribeSine(t *testing.T) {
	est := periodogram(t, testutil.SinePeriod(20, 1, 1250))
	s := Describe(est)

	if math.Abs(s.Centroid-0.05) > 0.005 {
		t.Fatalf("Centroid = %v, want near 0.05", s.Centroid)
	}
	if math.Abs(s.Peak-0.05) > 0.002 {
		t.Fatalf("Peak = %v, want near 0.05", s.Peak)
	}
	if s.Spread > 0.01 {
		t.Fatalf("Spread = %v, want tight around the tone", s.Spread)
	}
	if s.Flatness > 0.05 {
		t.Fatalf("Flatness = %v, want near zero for a tone", s.Flatness)
	}
	if s.Rolloff > 0.1 {
		t.Fatalf("Rolloff = %v, want at most 0.1 for a tone at 0.05", s.Rolloff)
	}
	if s.PeakWidth <= 0 || s.PeakWidth > 0.005 {
		t.Fatalf("PeakWidth = %v, want a narrow positive lobe", s.PeakWidth)
	}
}

func TestDescribeWhiteNoise(t *testing.T) {
	est := periodogram(t, testutil.SeededNoise(41, 1, 1024))
	s := Describe(est)

	// Raw periodogram ordinates of white noise scatter around the
	// true density, pulling the geometric mean below the arithmetic
	// one. The expected ratio is exp of minus the Euler constant,
	// about 0.56.
	if s.Flatness < 0.40 || s.Flatness > 0.72 {
		t.Fatalf("Flatness = %v, want in (0.40, 0.72) for white noise", s.Flatness)
	}
	if math.Abs(s.Centroid-0.25) > 0.03 {
		t.Fatalf("Centroid = %v, want near 0.25 for a flat density", s.Centroid)
	}
	wantSpread := 0.5 / math.Sqrt(12)
	if math.Abs(s.Spread-wantSpread) > 0.02 {
		t.Fatalf("Spread = %v, want near %v", s.Spread, wantSpread)
	}
	if s.Rolloff < 0.35 || s.Rolloff > 0.5 {
		t.Fatalf("Rolloff = %v, want in [0.35, 0.5] for a flat density", s.Rolloff)
	}
	if half := Rolloff(est, 0.5); math.Abs(half-0.25) > 0.05 {
		t.Fatalf("Rolloff(0.5) = %v, want near 0.25", half)
	}
}

func TestWelchFlattensNoise(t *testing.T) {
	x := testutil.SeededNoise(42, 1, 1250)

	plain := Describe(periodogram(t, x))

	welch, err := psd.Welch(x, psd.WithWindow(window.TypeHann), psd.WithSegmentLength(256))
	if err != nil {
		t.Fatalf("Welch: %v", err)
	}
	averaged := Describe(welch)

	if averaged.Flatness < 0.75 {
		t.Fatalf("Welch flatness = %v, want above 0.75 after averaging", averaged.Flatness)
	}
	if averaged.Flatness <= plain.Flatness {
		t.Fatalf("Welch flatness %v not above periodogram flatness %v", averaged.Flatness, plain.Flatness)
	}
}
