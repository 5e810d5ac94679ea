// Package design computes biquad coefficients for the filters used by the
// band decomposition.
//
// [Lowpass] and [Highpass] implement the bilinear-prewarped (RBJ cookbook)
// second-order designs; [ButterworthLP] and [ButterworthHP] cascade them
// with the Butterworth quality factors
//
//	Q_i = 1 / (2*sin(pi*(2i+1)/(2n)))    i = 0..n/2-1
//
// so the cascade has a maximally flat passband and -3 dB gain at the cutoff.
// Odd orders append a first-order section. Butterworth lowpass and highpass
// pairs at the same cutoff are power complementary, |LP|^2 + |HP|^2 = 1,
// which is what lets zero-phase band splitting reconstruct its input.
//
// Frequencies are in the caller's rate units; pass sampleRate = 1 to work
// in normalized frequency (Nyquist 0.5).
package design
