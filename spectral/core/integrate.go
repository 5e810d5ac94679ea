package core

import "math"

// Trapezoid integrates values sampled on the uniform grid k*df,
// k = 0..len(vals)-1, between lo and hi. Edges are clamped to the grid
// and their ordinates linearly interpolated, so adjacent intervals tile:
// the integrals over (a, b) and (b, c) sum to the integral over (a, c)
// up to float rounding.
func Trapezoid(vals []float64, df, lo, hi float64) float64 {
	if len(vals) < 2 || df <= 0 || hi <= lo {
		return 0
	}

	a := lo / df
	b := hi / df
	last := float64(len(vals) - 1)
	if a < 0 {
		a = 0
	}
	if b > last {
		b = last
	}
	if b <= a {
		return 0
	}

	ja := int(math.Ceil(a))
	jb := int(math.Floor(b))
	if ja > jb {
		// Both edges inside one grid cell.
		return 0.5 * (lerpAt(vals, a) + lerpAt(vals, b)) * (b - a) * df
	}

	sum := 0.0
	if float64(ja) > a {
		sum += 0.5 * (lerpAt(vals, a) + vals[ja]) * (float64(ja) - a)
	}
	for k := ja; k < jb; k++ {
		sum += 0.5 * (vals[k] + vals[k+1])
	}
	if b > float64(jb) {
		sum += 0.5 * (vals[jb] + lerpAt(vals, b)) * (b - float64(jb))
	}
	return sum * df
}

// lerpAt linearly interpolates vals at fractional grid position p.
func lerpAt(vals []float64, p float64) float64 {
	i := int(math.Floor(p))
	if i < 0 {
		return vals[0]
	}
	if i >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	return vals[i] + (p-float64(i))*(vals[i+1]-vals[i])
}
