package reverb

import (
	"math"
	"testing"
)

func impulseStereo(n int) ([]float64, []float64) {
	l := make([]float64, n)
	r := make([]float64, n)
	l[0] = 1

	return l, r
}

func TestNewReverbValidation(t *testing.T) {
	for _, fs := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewReverb(fs); err == nil {
			t.Fatalf("expected error for sample rate %v", fs)
		}
	}
}

func TestReverbTailExistsAndDecays(t *testing.T) {
	r, err := NewReverb(48000)
	if err != nil {
		t.Fatal(err)
	}

	r.SetWetLevel(1)
	r.SetDryLevel(0)

	const n = 48000 * 4

	l, rr := impulseStereo(n)
	r.ProcessStereo(l, rr)

	early := 0.0
	for _, v := range l[:48000] {
		early += v * v
	}

	late := 0.0
	for _, v := range l[n-4800:] {
		late += v * v
	}

	if early < 1e-6 {
		t.Fatalf("no reverb tail: energy=%g", early)
	}

	if late >= early*1e-3 {
		t.Fatalf("tail did not decay: early=%g late=%g", early, late)
	}

	for i := range l {
		if math.IsNaN(l[i]) || math.IsNaN(rr[i]) {
			t.Fatalf("NaN at %d", i)
		}
	}
}

func TestReverbDryOnly(t *testing.T) {
	r, _ := NewReverb(44100)
	r.SetWetLevel(0)
	r.SetDryLevel(0.5)

	l := []float64{0.25, -0.5, 1}
	rr := []float64{0.1, 0.2, 0.3}
	r.ProcessStereo(l, rr)

	// Dry scale is 2, so a dry level of 0.5 is unity.
	want := [][]float64{{0.25, -0.5, 1}, {0.1, 0.2, 0.3}}
	got := [][]float64{l, rr}

	for ch := range want {
		for i := range want[ch] {
			if math.Abs(got[ch][i]-want[ch][i]) > 1e-12 {
				t.Fatalf("ch %d idx %d: got %v want %v", ch, i, got[ch][i], want[ch][i])
			}
		}
	}
}

func TestReverbZeroWidthIsMono(t *testing.T) {
	r, _ := NewReverb(48000)
	r.SetWidth(0)

	l, rr := impulseStereo(8192)
	r.ProcessStereo(l, rr)

	for i := range l {
		if math.Abs(l[i]-rr[i]) > 1e-12 {
			t.Fatalf("width 0 produced different channels at %d: %v vs %v", i, l[i], rr[i])
		}
	}
}

func TestReverbFullWidthDecorrelates(t *testing.T) {
	r, _ := NewReverb(48000)
	r.SetWidth(1)

	l, rr := impulseStereo(8192)
	r.ProcessStereo(l, rr)

	diff := 0.0
	for i := range l {
		diff += math.Abs(l[i] - rr[i])
	}

	if diff < 1e-3 {
		t.Fatalf("full-width tails are identical (diff=%g)", diff)
	}
}

func TestReverbResetRestoresState(t *testing.T) {
	r, _ := NewReverb(48000)

	run := func() []float64 {
		buf := make([]float64, 4096)
		buf[0] = 1
		r.ProcessMono(buf)

		return buf
	}

	first := run()
	r.Reset()
	second := run()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Reset: %v vs %v", i, second[i], first[i])
		}
	}
}

func TestReverbParameterClamping(t *testing.T) {
	r, _ := NewReverb(48000)

	r.SetRoomSize(2)
	r.SetDamping(-1)
	r.SetWidth(math.NaN())

	if r.RoomSize() != 1 || r.Damping() != 0 || r.Width() != 0 {
		t.Fatalf("clamp failed: size=%v damping=%v width=%v", r.RoomSize(), r.Damping(), r.Width())
	}
}
