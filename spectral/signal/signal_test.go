package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
)

func TestSinePeriodAndRange(t *testing.T) {
	s := Sine(20, 1, 100)
	if len(s) != 100 {
		t.Fatalf("len = %d, want 100", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// Quarter period hits the positive peak.
	if math.Abs(s[5]-1) > 1e-12 {
		t.Fatalf("s[5] = %v, want 1", s[5])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestSineDegenerate(t *testing.T) {
	if got := Sine(20, 1, 0); got != nil {
		t.Fatalf("n=0 gave %v, want nil", got)
	}
	for _, v := range Sine(0, 1, 16) {
		if v != 0 {
			t.Fatal("zero period should give a zero series")
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a := WhiteNoise(42, 1, 64)
	b := WhiteNoise(42, 1, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, a[i], b[i])
		}
	}

	c := WhiteNoise(43, 1, 64)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}

	for i, v := range a {
		if v < -1 || v > 1 {
			t.Fatalf("a[%d] = %v outside [-1, 1]", i, v)
		}
	}
}

func TestGaussianNoiseMoments(t *testing.T) {
	x := GaussianNoise(7, 2, 10000)

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(x)))

	testutil.RequireNearlyEqual(t, mean, 0, 0.1)
	testutil.RequireNearlyEqual(t, std, 2, 0.1)
}

func TestLine(t *testing.T) {
	got := Line(1, 0.5, 5)
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 1.5, 2, 2.5, 3}, 0)
}

func TestConstant(t *testing.T) {
	for _, v := range Constant(2.5, 8) {
		if v != 2.5 {
			t.Fatalf("got %v, want 2.5", v)
		}
	}
}

func TestAdd(t *testing.T) {
	got := Add([]float64{1, 2, 3}, []float64{10, 20})
	testutil.RequireSliceNearlyEqual(t, got, []float64{11, 22, 3}, 0)

	if Add() != nil {
		t.Fatal("Add() should be nil")
	}
}
