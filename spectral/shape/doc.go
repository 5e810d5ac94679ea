// Package shape condenses a spectral density estimate into scalar
// descriptors: where the power sits (centroid, peak, rolloff), how far
// it spreads around the centroid, and how evenly it covers the grid
// (flatness). Broadband series score a flatness near one, a single
// dominant cycle near zero.
//
// All descriptors live on the estimate's own normalized frequency grid,
// so values from Periodogram and Welch estimates of the same series are
// directly comparable.
package shape
