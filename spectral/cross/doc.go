// Package cross estimates cross-spectral densities and coherence between
// pairs of return series on the psd grid.
//
// Spectrum computes the one-sided cross density X*conj(Y), split into
// co-spectrum (in-phase) and quadrature spectrum (out-of-phase) parts.
// BandCorrelation integrates it against the two auto densities to give a
// per-band correlation, the spectral cross-check for the time-domain
// band correlation. Coherence reports the per-frequency magnitude-squared
// coherence from Welch-averaged segments as a diagnostic; a single
// segment is degenerate there, so at least two are required.
//
// Auto- and cross-spectra entering the same ratio must share grid and
// window; the estimators reject mixed pairs.
package cross
