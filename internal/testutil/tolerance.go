package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

// RequireBuffersNearlyEqual fails t when got and want differ in shape or
// any sample pair differs by more than eps.
func RequireBuffersNearlyEqual(t *testing.T, got, want *buffer.Buffer, eps float64) {
	t.Helper()

	if got.NumChannels() != want.NumChannels() || got.Len() != want.Len() {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d",
			got.NumChannels(), got.Len(), want.NumChannels(), want.Len())
	}

	for ch := range got.NumChannels() {
		g, w := got.Channel(ch), want.Channel(ch)
		for i := range g {
			if d := math.Abs(g[i] - w[i]); d > eps {
				t.Fatalf("ch %d index %d: got %v, want %v (diff %g > %g)", ch, i, g[i], w[i], d, eps)
			}
		}
	}
}

// RequireFinite fails t if any sample of b is NaN or Inf.
func RequireFinite(t *testing.T, b *buffer.Buffer) {
	t.Helper()

	for ch := range b.NumChannels() {
		for i, v := range b.Channel(ch) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("ch %d index %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// MaxAbsDiff returns the largest absolute difference over the common
// length of a and b.
func MaxAbsDiff(a, b []float64) float64 {
	d := 0.0
	for i := range min(len(a), len(b)) {
		d = max(d, math.Abs(a[i]-b[i]))
	}

	return d
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var acc float64
	for _, v := range x {
		acc += v * v
	}

	return math.Sqrt(acc / float64(len(x)))
}

// Peak returns the largest absolute sample of x.
func Peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = max(p, math.Abs(v))
	}

	return p
}
