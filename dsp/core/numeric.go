package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
// NaN input is returned unchanged; callers that must never see NaN should
// use [ClampFinite].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampFinite is like Clamp but maps NaN to fallback and ±Inf to the
// nearest bound.
func ClampFinite(value, min, max, fallback float64) float64 {
	if math.IsNaN(value) {
		return fallback
	}

	return Clamp(value, min, max)
}

// Jmap linearly maps a normalised value in [0, 1] onto [lo, hi].
// The input is not clamped.
func Jmap(norm, lo, hi float64) float64 {
	return lo + norm*(hi-lo)
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// LinearToDBFloor converts linear amplitude to dB, returning floorDB for
// any level at or below the linear equivalent of the floor.
func LinearToDBFloor(linear, floorDB float64) float64 {
	if !(linear > DBToLinear(floorDB)) {
		return floorDB
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to samples.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * 0.001 * sampleRate
}
