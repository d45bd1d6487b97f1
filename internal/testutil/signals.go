// Package testutil holds deterministic signals and tolerance checks shared
// by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

// Sine returns n samples of a sine at freqHz starting at phase zero.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise returns n samples of uniform white noise in [-amplitude, amplitude]
// from a fixed seed.
func Noise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns n samples with a single 1 at pos.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}

	return out
}

// SineBuffer returns a buffer whose channels all carry the same sine.
func SineBuffer(channels int, freqHz, sampleRate, amplitude float64, n int) *buffer.Buffer {
	chs := make([][]float64, channels)
	for ch := range chs {
		chs[ch] = Sine(freqHz, sampleRate, amplitude, n)
	}

	return buffer.FromChannels(chs...)
}

// NoiseBuffer returns a buffer of independent noise channels. Channel ch
// uses seed+ch.
func NoiseBuffer(seed int64, channels int, amplitude float64, n int) *buffer.Buffer {
	chs := make([][]float64, channels)
	for ch := range chs {
		chs[ch] = Noise(seed+int64(ch), amplitude, n)
	}

	return buffer.FromChannels(chs...)
}

// Blocks calls fn for consecutive blocks of b no longer than size. The
// blocks alias b.
func Blocks(b *buffer.Buffer, size int, fn func(block *buffer.Buffer)) {
	var view buffer.Buffer

	for start := 0; start < b.Len(); start += size {
		b.ViewInto(&view, start, start+size)
		fn(&view)
	}
}
