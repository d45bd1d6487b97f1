package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

const (
	defaultWidenerWidth = 1.0

	minWidenerWidth = 0.0
	maxWidenerWidth = 2.0

	invSqrt2 = 0.70710678118654752440
)

// StereoWidenerOption mutates stereo widener construction parameters.
type StereoWidenerOption func(*stereoWidenerConfig) error

type stereoWidenerConfig struct {
	width float64
}

// WithWidth sets the stereo width factor.
// 0 = mono, 1 = unchanged, 2 = maximum widening.
func WithWidth(width float64) StereoWidenerOption {
	return func(cfg *stereoWidenerConfig) error {
		if width < minWidenerWidth || width > maxWidenerWidth ||
			math.IsNaN(width) || math.IsInf(width, 0) {
			return fmt.Errorf("stereo widener width must be in [%g, %g]: %f",
				minWidenerWidth, maxWidenerWidth, width)
		}

		cfg.width = width

		return nil
	}
}

// StereoWidener adjusts the width of a stereo image with an orthonormal
// mid/side transform:
//
//	M = (L+R)/√2    S = (L-R)/√2 · width
//	L' = (M+S)/√2   R' = (M-S)/√2
//
// A width of 1 returns the input, 0 collapses both channels to
// (L+R)/2, and 2 doubles the side signal.
//
// This processor is stateless, real-time safe, and not thread-safe.
type StereoWidener struct {
	width float64
}

// NewStereoWidener creates a stereo widener with unity width and optional
// overrides.
func NewStereoWidener(opts ...StereoWidenerOption) (*StereoWidener, error) {
	cfg := stereoWidenerConfig{width: defaultWidenerWidth}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &StereoWidener{width: cfg.width}, nil
}

// Width returns the current stereo width factor.
func (w *StereoWidener) Width() float64 { return w.width }

// SetWidth sets the stereo width factor in [0, 2].
func (w *StereoWidener) SetWidth(width float64) error {
	if width < minWidenerWidth || width > maxWidenerWidth ||
		math.IsNaN(width) || math.IsInf(width, 0) {
		return fmt.Errorf("stereo widener width must be in [%g, %g]: %f",
			minWidenerWidth, maxWidenerWidth, width)
	}

	w.width = width

	return nil
}

// ProcessStereo processes a single stereo sample pair.
func (w *StereoWidener) ProcessStereo(left, right float64) (float64, float64) {
	mid := invSqrt2 * (left + right)
	side := invSqrt2 * (left - right) * w.width

	return invSqrt2 * (mid + side), invSqrt2 * (mid - side)
}

// ProcessStereoInPlace applies stereo widening to paired left/right buffers
// in place. Both buffers must have the same length.
func (w *StereoWidener) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("stereo widener: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = w.ProcessStereo(left[i], right[i])
	}

	return nil
}

// Process widens channels 0 and 1 of b in place. Buffers with fewer than
// two channels are left untouched; extra channels are ignored.
func (w *StereoWidener) Process(b *buffer.Buffer) {
	if b.NumChannels() < 2 {
		return
	}

	l, r := b.Channel(0), b.Channel(1)
	for i := range l {
		l[i], r[i] = w.ProcessStereo(l[i], r[i])
	}
}
