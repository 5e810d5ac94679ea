package band

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral/spectral/core"
)

// Nyquist is the highest representable normalized frequency (cycles per
// sample); a period must span at least two samples to stay below it.
const Nyquist = 0.5

const boundaryEps = 1e-9

// Def is a caller-facing band definition in calendar time. Bands are listed
// shortest-period first; adjacent bands must share their boundary period and
// the final band must leave Longest open (zero value).
type Def struct {
	Name     string
	Shortest Period
	Longest  Period
}

// Band is a resolved frequency band. Periods are in samples, cutoffs in
// normalized frequency with Low < High <= Nyquist. A band covers the
// half-open interval (Low, High]; the first band's High is anchored at
// Nyquist and the final band's Low at 0 (DC itself is excluded: the series
// mean is removed and reported separately).
type Band struct {
	Name           string
	ShortestPeriod float64
	LongestPeriod  float64
	Low            float64
	High           float64
}

// Width returns the band's frequency extent.
func (b Band) Width() float64 { return b.High - b.Low }

// Open reports whether the band has no long-period bound.
func (b Band) Open() bool { return math.IsInf(b.LongestPeriod, 1) }

// Contains reports whether normalized frequency f falls in (Low, High].
func (b Band) Contains(f float64) bool { return f > b.Low && f <= b.High }

func (b Band) String() string {
	if b.Open() {
		return fmt.Sprintf("%s: period %.4g+ samples, cutoff (%.6f, %.6f]", b.Name, b.ShortestPeriod, b.Low, b.High)
	}
	return fmt.Sprintf("%s: period [%.4g, %.4g] samples, cutoff (%.6f, %.6f]", b.Name, b.ShortestPeriod, b.LongestPeriod, b.Low, b.High)
}

// Resolve converts calendar band definitions into normalized frequency
// bands under the given sampling interval. It validates the ladder: unique
// names, positive periods, every boundary at or above two samples (Nyquist),
// strictly increasing periods, shared boundaries between adjacent bands, and
// an open-ended final band. Violations return ErrInvalidBand.
func Resolve(defs []Def, interval Interval) ([]Band, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no bands defined", ErrInvalidBand)
	}

	seen := make(map[string]struct{}, len(defs))
	bands := make([]Band, len(defs))

	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: band %d has no name", ErrInvalidBand, i)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate band name %q", ErrInvalidBand, def.Name)
		}
		seen[def.Name] = struct{}{}

		if def.Shortest.open() || def.Shortest.Value < 0 {
			return nil, fmt.Errorf("%w: band %q shortest period must be positive", ErrInvalidBand, def.Name)
		}

		shortest := def.Shortest.Samples(interval)
		if math.IsNaN(shortest) || math.IsInf(shortest, 0) {
			return nil, fmt.Errorf("%w: band %q shortest period is not finite", ErrInvalidBand, def.Name)
		}
		if shortest < 2 && !core.NearlyEqual(shortest, 2, boundaryEps) {
			return nil, fmt.Errorf("%w: band %q period %.4g samples is shorter than 2x the sampling interval (Nyquist)",
				ErrInvalidBand, def.Name, shortest)
		}

		longest := math.Inf(1)
		if i < len(defs)-1 {
			if def.Longest.open() {
				return nil, fmt.Errorf("%w: band %q: only the final band may be open-ended", ErrInvalidBand, def.Name)
			}
			longest = def.Longest.Samples(interval)
			if longest <= shortest {
				return nil, fmt.Errorf("%w: band %q periods must increase (%.4g >= %.4g samples)",
					ErrInvalidBand, def.Name, shortest, longest)
			}
		} else if !def.Longest.open() {
			return nil, fmt.Errorf("%w: final band %q must be open-ended so long-period content stays attributed",
				ErrInvalidBand, def.Name)
		}

		low := 0.0
		if !math.IsInf(longest, 1) {
			low = 1 / longest
		}
		high := 1 / shortest
		if i == 0 {
			// Anchor the shortest band at Nyquist so coverage reaches the
			// top of the spectrum.
			high = Nyquist
		}

		bands[i] = Band{
			Name:           def.Name,
			ShortestPeriod: shortest,
			LongestPeriod:  longest,
			Low:            low,
			High:           high,
		}
	}

	for i := 0; i < len(bands)-1; i++ {
		cur, next := bands[i], bands[i+1]
		if core.NearlyEqual(cur.LongestPeriod, next.ShortestPeriod, boundaryEps) {
			continue
		}
		if next.ShortestPeriod < cur.LongestPeriod {
			return nil, fmt.Errorf("%w: bands %q and %q overlap (%.4g < %.4g samples)",
				ErrInvalidBand, cur.Name, next.Name, next.ShortestPeriod, cur.LongestPeriod)
		}
		return nil, fmt.Errorf("%w: gap between bands %q and %q (%.4g to %.4g samples)",
			ErrInvalidBand, cur.Name, next.Name, cur.LongestPeriod, next.ShortestPeriod)
	}

	return bands, nil
}

// Boundaries returns the interior cutoff frequencies shared by adjacent
// bands, in ascending frequency order. A K-band ladder has K-1 boundaries.
func Boundaries(bands []Band) []float64 {
	if len(bands) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bands)-1)
	for i := len(bands) - 1; i >= 1; i-- {
		out = append(out, bands[i].High)
	}
	return out
}

// DefaultBands returns the stock band ladder for the interval: a short band
// from the Nyquist region up to a few months, a medium band to two years, a
// cycle band, and an open trend band. Coarser intervals get coarser ladders
// since their Nyquist periods start higher.
func DefaultBands(interval Interval) []Def {
	switch interval {
	case IntervalWeekly:
		return []Def{
			{Name: "short", Shortest: Weeks(2), Longest: Months(3)},
			{Name: "medium", Shortest: Months(3), Longest: Years(2)},
			{Name: "cycle", Shortest: Years(2), Longest: Years(4)},
			{Name: "trend", Shortest: Years(4)},
		}
	case IntervalMonthly:
		return []Def{
			{Name: "short", Shortest: Months(2), Longest: Months(6)},
			{Name: "medium", Shortest: Months(6), Longest: Years(2)},
			{Name: "cycle", Shortest: Years(2), Longest: Years(5)},
			{Name: "trend", Shortest: Years(5)},
		}
	default:
		return []Def{
			{Name: "short", Shortest: Days(5), Longest: Months(2)},
			{Name: "medium", Shortest: Months(2), Longest: Years(2)},
			{Name: "cycle", Shortest: Years(2), Longest: Years(4)},
			{Name: "trend", Shortest: Years(4)},
		}
	}
}
