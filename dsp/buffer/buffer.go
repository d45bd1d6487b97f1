package buffer

import (
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Buffer is a planar block of float64 samples: N channels × M samples.
// Every channel slice shares the same logical length.
type Buffer struct {
	store [][]float64
	n     int
}

// New returns a zero-filled Buffer with the given channel count and length.
// The length is also the capacity available to SetLen without allocating.
func New(channels, length int) *Buffer {
	if channels < 0 {
		channels = 0
	}

	if length < 0 {
		length = 0
	}

	store := make([][]float64, channels)
	for i := range store {
		store[i] = make([]float64, length)
	}

	return &Buffer{store: store, n: length}
}

// FromChannels wraps existing channel slices without copying. The logical
// length is the shortest channel.
func FromChannels(channels ...[]float64) *Buffer {
	n := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < n {
			n = len(ch)
		}
	}

	return &Buffer{store: channels, n: n}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.store)
}

// Len returns the number of samples per channel.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the largest length SetLen accepts without allocating.
func (b *Buffer) Cap() int {
	c := 0
	for i, ch := range b.store {
		if i == 0 || cap(ch) < c {
			c = cap(ch)
		}
	}

	return c
}

// Channel returns channel i limited to the logical length.
func (b *Buffer) Channel(i int) []float64 {
	return b.store[i][:b.n]
}

// SetLen changes the logical length. Growing past Cap reallocates each
// channel, preserving existing samples; growing within Cap exposes zeroed
// samples only if the caller previously zeroed them.
func (b *Buffer) SetLen(n int) {
	if n < 0 {
		n = 0
	}

	for i, ch := range b.store {
		if cap(ch) < n {
			grown := make([]float64, n)
			copy(grown, ch)
			b.store[i] = grown

			continue
		}

		b.store[i] = ch[:cap(ch)]
	}

	b.n = n
}

// Zero sets every sample of every channel to 0.
func (b *Buffer) Zero() {
	for i := range b.store {
		ch := b.store[i][:b.n]
		for j := range ch {
			ch[j] = 0
		}
	}
}

// CopyFrom copies src into b channel by channel. The logical length of b is
// set to the length of src; extra channels on either side are ignored.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.SetLen(src.n)

	nch := min(len(b.store), len(src.store))
	for i := range nch {
		copy(b.store[i][:b.n], src.store[i][:src.n])
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := New(len(b.store), b.n)
	c.CopyFrom(b)

	return c
}

// Scale multiplies every sample by g.
func (b *Buffer) Scale(g float64) {
	for i := range b.store {
		ch := b.store[i][:b.n]
		if len(ch) == 0 {
			continue
		}

		vecmath.ScaleBlock(ch, ch, g)
	}
}

// Deinterleave fills b from interleaved float32 frames. The channel count
// of b is the frame width; the logical length becomes len(src)/channels.
func (b *Buffer) Deinterleave(src []float32) {
	nch := len(b.store)
	if nch == 0 {
		return
	}

	b.SetLen(len(src) / nch)

	for i := 0; i < b.n; i++ {
		frame := src[i*nch : (i+1)*nch]
		for ch, v := range frame {
			b.store[ch][i] = float64(v)
		}
	}
}

// Interleave writes b into interleaved float32 frames and returns the
// number of values written.
func (b *Buffer) Interleave(dst []float32) int {
	nch := len(b.store)
	if nch == 0 {
		return 0
	}

	frames := min(b.n, len(dst)/nch)
	for i := range frames {
		for ch := range nch {
			dst[i*nch+ch] = float32(b.store[ch][i])
		}
	}

	return frames * nch
}

// ViewInto points dst at samples [start, end) of every channel of b
// without copying. The zero Buffer is a valid dst; its channel table is
// reused once it is large enough.
func (b *Buffer) ViewInto(dst *Buffer, start, end int) {
	start = max(0, min(start, b.n))
	end = max(start, min(end, b.n))

	if cap(dst.store) < len(b.store) {
		dst.store = make([][]float64, len(b.store))
	}

	dst.store = dst.store[:len(b.store)]
	for i, ch := range b.store {
		dst.store[i] = ch[start:end:end]
	}

	dst.n = end - start
}
