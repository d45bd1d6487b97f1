// Package delay provides a circular delay line with integer and
// interpolated reads.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/interp"
)

// Line is a circular delay line.
//
// Delays are counted in writes: Read(1) returns the most recently written
// sample and Read(Len()) the oldest one still stored. Reading before
// writing therefore yields a pure delay of the requested length.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line able to hold size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the internal buffer size, which is also the largest delay.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write pushes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay writes ago. The delay is clamped
// to [1, Len()].
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	delay = min(max(delay, 1), size)

	pos := d.writePos - delay
	if pos < 0 {
		pos += size
	}

	return d.buffer[pos]
}

// ReadFractional reads a fractional delay with cubic Hermite
// interpolation. The delay is clamped to [1, Len()-2].
func (d *Line) ReadFractional(delay float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	maxDelay := float64(max(size-2, 1))
	if !(delay >= 1) {
		delay = 1
	}

	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	if t == 0 {
		return d.Read(p)
	}

	return interp.Hermite4(t, d.Read(p-1), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
