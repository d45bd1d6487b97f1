package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

func TestTransientShaperNeutralIsIdentity(t *testing.T) {
	ts, err := NewTransientShaper(48000)
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0, 1, -0.5, 0.25, 0.9, -0.9}
	b := buffer.FromChannels(append([]float64(nil), in...))
	ts.Process(b)

	for i, v := range b.Channel(0) {
		if v != in[i] {
			t.Fatalf("index %d: got %v want %v", i, v, in[i])
		}
	}
}

func TestTransientShaperBoostsOnset(t *testing.T) {
	ts, _ := NewTransientShaper(48000)
	ts.SetAttackAmount(1)

	const n = 4800

	burst := make([]float64, n)
	for i := range burst {
		burst[i] = 0.8
	}

	ts.Process(buffer.FromChannels(burst))

	peak := 0.0
	for _, v := range burst[:960] {
		peak = max(peak, v)
	}

	if peak <= 0.8 {
		t.Fatalf("onset not emphasized: peak=%v", peak)
	}

	// Once both envelopes converge the gain returns toward unity.
	if last := burst[n-1]; math.Abs(last-0.8) > 0.05 {
		t.Fatalf("steady-state sample = %v, want about 0.8", last)
	}
}

func TestTransientShaperDetectsOnChannelZero(t *testing.T) {
	ts, _ := NewTransientShaper(48000)
	ts.SetAttackAmount(-1)

	l := make([]float64, 256)
	r := make([]float64, 256)

	for i := range r {
		r[i] = 0.5
	}

	ts.Process(buffer.FromChannels(l, r))

	// Channel 0 is silent, so no transient is detected and the loud right
	// channel passes unchanged.
	for i, v := range r {
		if v != 0.5 {
			t.Fatalf("index %d: right channel changed to %v", i, v)
		}
	}
}

func TestTransientShaperGainLimits(t *testing.T) {
	ts, _ := NewTransientShaper(48000)
	ts.SetAttackAmount(5)
	ts.SetSustainAmount(math.NaN())

	if ts.AttackAmount() != 1 || ts.SustainAmount() != 0 {
		t.Fatalf("attack=%v sustain=%v", ts.AttackAmount(), ts.SustainAmount())
	}

	for range 100 {
		y := ts.ProcessSample(10)
		if g := y / 10; g < minTransientGain || g > maxTransientGain {
			t.Fatalf("gain %v outside limits", g)
		}
	}
}

func TestEnvelopeFollower(t *testing.T) {
	if _, err := NewEnvelopeFollower(48000, 0, 0.1); err == nil {
		t.Fatal("expected error for zero attack")
	}

	e, err := NewEnvelopeFollower(1000, 0.01, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	// After one attack time constant the envelope reaches 1-1/e.
	for range 10 {
		e.Next(1)
	}

	if v := e.Value(); math.Abs(v-(1-math.Exp(-1))) > 1e-9 {
		t.Fatalf("envelope after one time constant = %v", v)
	}

	e.Reset()
	if e.Value() != 0 {
		t.Fatal("Reset did not clear envelope")
	}
}
