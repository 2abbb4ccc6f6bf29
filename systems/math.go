package systems

import "math"

// Clamp functions for common value ranges

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// smoothstep is the GLSL Hermite step: 0 below edge0, 1 above edge1.
func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// blend mixes two flows by a height-dependent factor in [0, 1].
// Heights near +0.5 follow a, near -0.5 follow b.
func blend(a, b, height float64) float64 {
	w := (math.Sin(height*math.Pi) + 1) * 0.5
	return a*w + b*(1-w)
}

// containment is the quartic soft wall: negligible near the center,
// saturating at strength once dist reaches threshold.
func containment(dist, threshold, exponent, strength float64) float64 {
	if threshold <= 0 {
		return strength
	}
	return math.Pow(math.Min(1, dist/threshold), exponent) * strength
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
