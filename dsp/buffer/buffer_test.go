package buffer

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	b := New(2, 64)
	if b.NumChannels() != 2 || b.Len() != 64 || b.Cap() != 64 {
		t.Fatalf("New(2,64): channels=%d len=%d cap=%d", b.NumChannels(), b.Len(), b.Cap())
	}

	for ch := range 2 {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("channel %d index %d not zero: %v", ch, i, v)
			}
		}
	}

	neg := New(-1, -1)
	if neg.NumChannels() != 0 || neg.Len() != 0 {
		t.Fatal("negative sizes must clamp to zero")
	}
}

func TestFromChannelsUsesShortestLength(t *testing.T) {
	l := []float64{1, 2, 3, 4}
	r := []float64{5, 6, 7}

	b := FromChannels(l, r)
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}

	b.Channel(0)[0] = 9
	if l[0] != 9 {
		t.Fatal("FromChannels must not copy")
	}
}

func TestSetLenWithinCapDoesNotReallocate(t *testing.T) {
	b := New(2, 128)
	first := &b.Channel(0)[0]

	b.SetLen(32)
	if b.Len() != 32 {
		t.Fatalf("Len = %d, want 32", b.Len())
	}

	b.SetLen(128)
	if &b.Channel(0)[0] != first {
		t.Fatal("SetLen within capacity reallocated the channel")
	}
}

func TestSetLenGrowPreservesSamples(t *testing.T) {
	b := New(1, 2)
	b.Channel(0)[0] = 1
	b.Channel(0)[1] = 2

	b.SetLen(4)

	got := b.Channel(0)
	if len(got) != 4 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("grown channel = %v", got)
	}
}

func TestCopyFromAndClone(t *testing.T) {
	src := FromChannels([]float64{1, 2}, []float64{3, 4})
	dst := New(2, 8)

	dst.CopyFrom(src)

	if dst.Len() != 2 || dst.Channel(1)[1] != 4 {
		t.Fatalf("CopyFrom mismatch: len=%d ch1=%v", dst.Len(), dst.Channel(1))
	}

	c := dst.Clone()
	c.Channel(0)[0] = 42

	if dst.Channel(0)[0] == 42 {
		t.Fatal("Clone shares storage")
	}
}

func TestScale(t *testing.T) {
	b := FromChannels([]float64{1, -2}, []float64{0.5, 4})
	b.Scale(0.5)

	want := [][]float64{{0.5, -1}, {0.25, 2}}
	for ch := range want {
		for i := range want[ch] {
			if b.Channel(ch)[i] != want[ch][i] {
				t.Fatalf("ch %d idx %d = %v, want %v", ch, i, b.Channel(ch)[i], want[ch][i])
			}
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	in := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}

	b := New(2, 16)
	b.Deinterleave(in)

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}

	if math.Abs(b.Channel(1)[2]-(-0.3)) > 1e-6 {
		t.Fatalf("right[2] = %v", b.Channel(1)[2])
	}

	out := make([]float32, len(in))
	if n := b.Interleave(out); n != len(in) {
		t.Fatalf("Interleave wrote %d values, want %d", n, len(in))
	}

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestViewIntoAliases(t *testing.T) {
	b := FromChannels([]float64{0, 1, 2, 3, 4}, []float64{5, 6, 7, 8, 9})

	var v Buffer
	b.ViewInto(&v, 1, 3)

	if v.NumChannels() != 2 || v.Len() != 2 || v.Channel(1)[0] != 6 {
		t.Fatalf("view: channels=%d len=%d ch1=%v", v.NumChannels(), v.Len(), v.Channel(1))
	}

	v.Scale(10)

	if b.Channel(0)[1] != 10 || b.Channel(0)[3] != 3 {
		t.Fatalf("view does not alias: %v", b.Channel(0))
	}

	b.ViewInto(&v, 4, 99)
	if v.Len() != 1 || v.Channel(0)[0] != 4 {
		t.Fatalf("clamped view = %v", v.Channel(0))
	}
}
