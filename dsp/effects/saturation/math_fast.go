//go:build fastmath

package saturation

import (
	"github.com/meko-christian/algo-approx"
)

// tanhLimit bounds the exponent so the fast exponential stays in range.
const tanhLimit = 20.0

// mathTanh computes tanh(x) as 1 - 2/(e^(2x)+1) with the fast exponential.
func mathTanh(x float64) float64 {
	switch {
	case x > tanhLimit:
		return 1
	case x < -tanhLimit:
		return -1
	}

	return 1 - 2/(approx.FastExp(2*x)+1)
}
