// Package analyze runs the full decomposition pipeline over a matrix of
// asset return series: zero-phase band splitting, spectral band powers,
// per-band correlation matrices, and risk-return summaries.
//
// A run is a pure function of the input matrix, the band ladder, and the
// options fixed at construction. The per-asset and per-pair stages fan
// out over a worker pool, with results written into index-addressed
// slots, so equal inputs produce bitwise-equal results at any worker
// count.
//
// Band correlations are computed twice. A time-domain Pearson on the
// zero-phase band series is the reported figure; a cross-spectral
// integral over the same band serves as an independent check. Estimator
// disagreements beyond the configured tolerances surface as Warnings and
// are never silently corrected.
package analyze
