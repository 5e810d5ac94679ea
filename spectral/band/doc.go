// Package band resolves calendar-scale band definitions into normalized
// frequency cutoffs.
//
// A band ladder partitions the spectrum of a regularly sampled return
// series by period: for a boundary of P samples the cutoff frequency is
//
//	f = 1/P    (cycles per sample, Nyquist = 0.5)
//
// so a "5 days to 2 months" band on daily data becomes (1/42, 1/5] before
// the Nyquist anchor. Ladders are listed shortest-period first, adjacent
// bands share their boundary period exactly, and the final band is
// open-ended so every long-period component stays attributed to a band.
// The first band's upper cutoff is anchored at Nyquist and the final band's
// lower cutoff at 0; DC itself is excluded from band analysis (the series
// mean is removed and reported separately by the consumers).
//
// Basic usage:
//
//	bands, err := band.Resolve(band.DefaultBands(band.IntervalDaily), band.IntervalDaily)
//	for _, b := range bands {
//	    fmt.Println(b)
//	}
package band
