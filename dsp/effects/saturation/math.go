//go:build !fastmath

package saturation

import "math"

func mathTanh(x float64) float64 {
	return math.Tanh(x)
}
