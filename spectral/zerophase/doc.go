// Package zerophase implements forward-backward IIR filtering with zero
// phase distortion.
//
// A signal is filtered once in the forward direction and once in reverse
// through the same biquad cascade. The phase responses of the two passes
// cancel while the magnitudes multiply, so the overall response is
// |H(f)|^2 with no group delay. Peaks, troughs and zero crossings stay
// exactly where they are in the input, which is what makes the output of
// adjacent band filters comparable sample by sample.
//
// Edge transients are controlled two ways: the input is extended on both
// sides with an odd reflection (or a constant hold) before filtering, and
// each pass starts from the cascade's step-response steady state for the
// series mean. Without the steady-state seeding, cutoffs near DC would
// ring across hundreds of samples regardless of padding.
//
//	f, _ := zerophase.New(design.ButterworthLP(1.0/504, 4, 1))
//	trend, err := f.Apply(returns)
//
// A Filter carries mutable delay-line state and must not be shared across
// goroutines.
package zerophase
