// Package psd estimates one-sided power spectral densities of return
// series in normalized frequency (unit sample rate, Nyquist 0.5).
//
// Estimates are density normalized by the window power sum, so the
// trapezoidal integral over the whole grid recovers the series variance
// and band integrals read directly as variance shares. Periodogram
// transforms the series in one shot; Welch averages overlapped, tapered
// segments, trading frequency resolution for estimator variance.
//
// Series are demeaned before tapering (per segment for Welch), so the DC
// ordinate carries no mean power and the longest-period band is not
// contaminated by the series level.
package psd
