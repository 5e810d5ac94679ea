package band

import (
	"fmt"
	"strings"
)

// Interval identifies the sampling interval of a return series.
type Interval int

const (
	IntervalDaily Interval = iota
	IntervalWeekly
	IntervalMonthly
)

// PeriodsPerYear returns the number of samples per year under the
// trading-calendar convention (252 daily, 52 weekly, 12 monthly).
func (iv Interval) PeriodsPerYear() float64 {
	switch iv {
	case IntervalWeekly:
		return 52
	case IntervalMonthly:
		return 12
	default:
		return 252
	}
}

func (iv Interval) String() string {
	switch iv {
	case IntervalWeekly:
		return "weekly"
	case IntervalMonthly:
		return "monthly"
	default:
		return "daily"
	}
}

// ParseInterval converts a string such as "daily" into an Interval.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d":
		return IntervalDaily, nil
	case "weekly", "week", "w":
		return IntervalWeekly, nil
	case "monthly", "month", "m":
		return IntervalMonthly, nil
	default:
		return IntervalDaily, fmt.Errorf("band: unknown interval %q", s)
	}
}

// Unit identifies the calendar unit of a Period.
type Unit int

const (
	UnitSamples Unit = iota
	UnitDays
	UnitWeeks
	UnitMonths
	UnitYears
)

// Period is a calendar-scale duration used to bound a frequency band.
// The zero value marks an open (infinite) period and is only legal as the
// final band's Longest bound.
type Period struct {
	Value float64
	Unit  Unit
}

// Samples converts a fixed number of samples, bypassing calendar conversion.
func Samples(v float64) Period { return Period{Value: v, Unit: UnitSamples} }

// Days builds a Period of v trading days.
func Days(v float64) Period { return Period{Value: v, Unit: UnitDays} }

// Weeks builds a Period of v calendar weeks (252/52 trading days each).
func Weeks(v float64) Period { return Period{Value: v, Unit: UnitWeeks} }

// Months builds a Period of v calendar months (21 trading days each).
func Months(v float64) Period { return Period{Value: v, Unit: UnitMonths} }

// Years builds a Period of v calendar years (252 trading days each).
func Years(v float64) Period { return Period{Value: v, Unit: UnitYears} }

// Samples converts the period to a sample count under the given interval.
// Calendar units are anchored on samples-per-year, so a month is spy/12
// samples and a week spy/52.
func (p Period) Samples(iv Interval) float64 {
	spy := iv.PeriodsPerYear()
	switch p.Unit {
	case UnitDays:
		return p.Value * spy / 252
	case UnitWeeks:
		return p.Value * spy / 52
	case UnitMonths:
		return p.Value * spy / 12
	case UnitYears:
		return p.Value * spy
	default:
		return p.Value
	}
}

func (p Period) open() bool { return p.Value == 0 }
