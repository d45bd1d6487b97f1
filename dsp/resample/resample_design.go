package resample

import (
	"errors"
	"math"
)

// designHalfband returns an odd-length, linear-phase half-band lowpass
// prototype for a 2× rate change. Taps at even offsets from the centre are
// zero except the centre itself, which is exactly 0.5; the remaining taps
// are scaled to sum to 0.5 so both polyphase branches have unity DC gain
// after the factor of two applied on upsampling.
func designHalfband(tapsPerPhase int, beta float64) ([]float64, error) {
	if tapsPerPhase < 2 {
		return nil, errors.New("resample: taps per phase must be >= 2")
	}

	n := 2*tapsPerPhase - 1
	center := tapsPerPhase - 1
	taps := make([]float64, n)

	var oddSum float64

	for i := range n {
		off := i - center

		switch {
		case off == 0:
			taps[i] = 0.5
		case off%2 == 0:
			taps[i] = 0
		default:
			taps[i] = 0.5 * sinc(0.5*float64(off)) * kaiserWindow(i, n, beta)
			oddSum += taps[i]
		}
	}

	if oddSum == 0 || math.IsNaN(oddSum) {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	scale := 0.5 / oddSum
	for i := range taps {
		if (i-center)%2 != 0 {
			taps[i] *= scale
		}
	}

	return taps, nil
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return i0(beta*a) / i0(beta)
}

func i0(x float64) float64 {
	// Power series approximation.
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
