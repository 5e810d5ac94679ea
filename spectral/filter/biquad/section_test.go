package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// passthrough returns coefficients for a unity gain passthrough (B0=1, all else 0).
func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

// twoTapAverage returns H(z) = 0.5*(1 + z^-1), a simple lowpass.
func twoTapAverage() Coefficients {
	return Coefficients{B0: 0.5, B1: 0.5}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	st := s.State()
	if st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSamplePassthrough(t *testing.T) {
	s := NewSection(passthrough())
	input := []float64{1, 0, -1, 0.5, 0.25}
	for i, x := range input {
		y := s.ProcessSample(x)
		if !almostEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSampleDFIIT(t *testing.T) {
	// Hand-traced DF-II-T with B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04
	// for x = [1, 0, 0, 0]:
	//
	// n=0: y=0.25, d0=0.55, d1=0.24
	// n=1: y=0.55, d0=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.048, d1=-0.014
	// n=3: y=0.048
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		y := s.ProcessSample(x)
		if !almostEqual(y, w, eps) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}

	s1 := NewSection(c)
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	ref := make([]float64, len(input))
	for i, x := range input {
		ref[i] = s1.ProcessSample(x)
	}

	s2 := NewSection(c)
	block := make([]float64, len(input))
	copy(block, input)
	s2.ProcessBlock(block)

	for i := range ref {
		if !almostEqual(block[i], ref[i], eps) {
			t.Errorf("index %d: block %v, sample %v", i, block[i], ref[i])
		}
	}

	if s1.State() != s2.State() {
		t.Fatalf("state mismatch: %v vs %v", s1.State(), s2.State())
	}
}

func TestProcessBlockToMatchesInPlace(t *testing.T) {
	c := Coefficients{B0: 0.3, B1: 0.1, B2: -0.2, A1: -0.5, A2: 0.25}
	input := []float64{0.3, -0.8, 1, 0.2, -0.1, 0.6}

	s1 := NewSection(c)
	inPlace := make([]float64, len(input))
	copy(inPlace, input)
	s1.ProcessBlock(inPlace)

	s2 := NewSection(c)
	dst := make([]float64, len(input))
	s2.ProcessBlockTo(dst, input)

	for i := range dst {
		if !almostEqual(dst[i], inPlace[i], eps) {
			t.Errorf("index %d: to %v, in-place %v", i, dst[i], inPlace[i])
		}
	}
}

func TestSectionReset(t *testing.T) {
	s := NewSection(twoTapAverage())
	s.ProcessSample(1)
	if s.State() == [2]float64{0, 0} {
		t.Fatal("state should be non-zero after processing")
	}

	s.Reset()
	if s.State() != [2]float64{0, 0} {
		t.Fatalf("state not cleared: %v", s.State())
	}
}

func TestSetState(t *testing.T) {
	s := NewSection(twoTapAverage())
	s.SetState([2]float64{0.1, -0.2})
	if s.State() != [2]float64{0.1, -0.2} {
		t.Fatalf("state = %v, want [0.1 -0.2]", s.State())
	}
}

func TestFirstOrder(t *testing.T) {
	if !(Coefficients{B0: 0.5, B1: 0.5, A1: -0.1}).FirstOrder() {
		t.Fatal("expected first-order section")
	}
	if (Coefficients{B0: 0.5, B1: 0.5, B2: 0.1}).FirstOrder() {
		t.Fatal("expected second-order section")
	}
}

func TestSetSteadyState(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)

	s := NewSection(c)
	got := s.SetSteadyState(1)
	if !almostEqual(got, dc, eps) {
		t.Fatalf("steady output = %v, want %v", got, dc)
	}

	// A constant input must now pass without any transient.
	for i := 0; i < 20; i++ {
		if y := s.ProcessSample(1); !almostEqual(y, dc, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, y, dc)
		}
	}
}
