// Package filterbank decomposes a series into additive frequency bands
// with zero-phase Butterworth filters.
//
// The bank runs one zero-phase lowpass per interior band boundary and
// forms each band as the difference of adjacent lowpass outputs. With
// cutoffs c1 < c2 < ... < c(K-1) and demeaned input d:
//
//	band[K-1] = LP(c1, d)                    longest periods (trend)
//	band[k]   = LP(c(K-1-k), d) - LP(c(K-2-k), d)
//	band[0]   = d - LP(c(K-1), d)            shortest periods
//
// The differences telescope, so
//
//	mean + band[0] + ... + band[K-1] == input
//
// holds exactly, independent of filter order or cutoff placement. Each
// band is still genuinely band-limited: Butterworth lowpass pairs are
// power complementary, so the difference of two cutoffs concentrates on
// the periods between them.
//
// Bands are indexed like the band package lists them, shortest period
// (highest frequency) first.
package filterbank
