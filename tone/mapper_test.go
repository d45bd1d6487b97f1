package tone

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tone/dsp/effects/saturation"
)

func TestMusicalCurve(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.1, 0},
		{-0.149, 0},
		{1, math.Tanh(1.5)},
		{-1, -math.Tanh(1.5)},
		{0.575, math.Tanh(0.75)},
	}

	for _, tt := range tests {
		if got := musicalCurve(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("musicalCurve(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMusicalCurveMonotonic(t *testing.T) {
	prev := musicalCurve(-1)
	for i := 1; i <= 200; i++ {
		x := -1 + float64(i)/100
		y := musicalCurve(x)
		if y < prev {
			t.Fatalf("musicalCurve decreases at %v: %v < %v", x, y, prev)
		}

		prev = y
	}
}

func TestMapRhythmScenario(t *testing.T) {
	m := Macros{Character: 0.4, Thump: 0.7, Body: 0.5, Shimmer: 0.2, Spank: 0.4, Space: 0}
	p := MapAll(m, ModeRhythm)

	if got := p.EQ.LowCutFreq; math.Abs(got-81.4619) > 0.01 {
		t.Errorf("LowCutFreq = %v, want ~81.46", got)
	}

	if got := p.EQ.LowCutFreq; got < rhythmTable.lowCutMin || got > rhythmTable.lowCutMax {
		t.Errorf("LowCutFreq %v outside rhythm range", got)
	}

	if got := p.Dynamics.CompThreshold; got > rhythmTable.threshHigh || got < rhythmTable.threshLow {
		t.Errorf("CompThreshold %v outside [%v, %v]", got, rhythmTable.threshLow, rhythmTable.threshHigh)
	}

	if got := p.Dynamics.CompRatio; got < 1 || got > rhythmTable.baseRatio+rhythmTable.ratioExtra {
		t.Errorf("CompRatio %v outside rhythm range", got)
	}

	if p.Saturation.Type != saturation.Tube {
		t.Errorf("saturation type = %v, want tube", p.Saturation.Type)
	}

	if p.Spatial.ReverbMix != 0 || p.Spatial.DelayMix != 0 || p.Spatial.ChorusMix != 0 {
		t.Errorf("space=0 must leave spatial dry: %+v", p.Spatial)
	}

	if p.Spatial.StereoWidth != 1 {
		t.Errorf("StereoWidth = %v, want 1", p.Spatial.StereoWidth)
	}
}

func TestMapCleanFullSpace(t *testing.T) {
	m := DefaultMacros()
	m.Space = 1

	sp := MapSpatial(m.Body, m.Shimmer, m.Space, ModeClean)

	if math.Abs(sp.ReverbMix-0.65) > 1e-12 {
		t.Errorf("ReverbMix = %v, want 0.65", sp.ReverbMix)
	}

	if math.Abs(sp.ReverbSize-1) > 1e-12 {
		t.Errorf("ReverbSize = %v, want 1", sp.ReverbSize)
	}

	if math.Abs(sp.StereoWidth-1.4) > 1e-12 {
		t.Errorf("StereoWidth = %v, want 1.4", sp.StereoWidth)
	}

	if math.Abs(sp.DelayTimeRight-1.5*sp.DelayTimeLeft) > 1e-12 || sp.DelayTimeLeft != 500 {
		t.Errorf("delay times = (%v, %v), want (500, 750)", sp.DelayTimeLeft, sp.DelayTimeRight)
	}

	if math.Abs(sp.DelayMix-0.4*0.7) > 1e-12 {
		t.Errorf("DelayMix = %v, want 0.28", sp.DelayMix)
	}
}

func TestMapNeutralEQIsFlat(t *testing.T) {
	m := DefaultMacros()

	for _, mode := range Modes() {
		p := MapEQ(m.Character, m.Thump, m.Body, m.Shimmer, mode)
		tb := tableFor(mode)

		for name, g := range map[string]float64{
			"lowShelf":  p.LowShelfGain,
			"mid1":      p.Mid1Gain,
			"mid2":      p.Mid2Gain,
			"highShelf": p.HighShelfGain,
			"air":       p.AirBandGain,
		} {
			if g != 1 {
				t.Errorf("%v: %s gain = %v, want 1", mode, name, g)
			}
		}

		if p.LowCutFreq != tb.lowCutMin {
			t.Errorf("%v: LowCutFreq = %v, want %v", mode, p.LowCutFreq, tb.lowCutMin)
		}

		if p.Mid1Q != tb.baseQ1 || p.Mid2Q != tb.baseQ2 {
			t.Errorf("%v: Q = (%v, %v), want (%v, %v)", mode, p.Mid1Q, p.Mid2Q, tb.baseQ1, tb.baseQ2)
		}
	}
}

func TestMapEQThumpOnlyRaisesLowCut(t *testing.T) {
	low := MapEQ(0, 0, 0.5, 0.5, ModeLead)
	mid := MapEQ(0, 0.5, 0.5, 0.5, ModeLead)
	high := MapEQ(0, 1, 0.5, 0.5, ModeLead)

	if low.LowCutFreq != leadTable.lowCutMin || mid.LowCutFreq != leadTable.lowCutMin {
		t.Fatalf("thump <= 0.5 must keep low cut at %v: %v %v", leadTable.lowCutMin, low.LowCutFreq, mid.LowCutFreq)
	}

	want := leadTable.lowCutMin + math.Tanh(1.5)*(leadTable.lowCutMax-leadTable.lowCutMin)
	if math.Abs(high.LowCutFreq-want) > 1e-9 {
		t.Fatalf("LowCutFreq = %v, want %v", high.LowCutFreq, want)
	}

	if !(low.LowShelfGain < 1) || !(high.LowShelfGain > 1) {
		t.Fatalf("low shelf gains = %v / %v", low.LowShelfGain, high.LowShelfGain)
	}
}

func TestMapIgnoresUnusedDials(t *testing.T) {
	for _, mode := range Modes() {
		if a, b := MapEQ(0, 0.7, 0.4, 0.6, mode), MapEQ(1, 0.7, 0.4, 0.6, mode); a != b {
			t.Errorf("%v: character changed EQ: %+v vs %+v", mode, a, b)
		}

		if a, b := MapSpatial(0.4, 0, 0.8, mode), MapSpatial(0.4, 1, 0.8, mode); a != b {
			t.Errorf("%v: shimmer changed spatial: %+v vs %+v", mode, a, b)
		}
	}
}

func TestMapEQQClamped(t *testing.T) {
	for _, mode := range Modes() {
		for _, body := range []float64{0, 0.25, 0.75, 1} {
			p := MapEQ(0, 0.5, body, 0.5, mode)
			if p.Mid1Q < 0.4 || p.Mid1Q > 2.5 || p.Mid2Q < 0.4 || p.Mid2Q > 2.5 {
				t.Fatalf("%v body=%v: Q out of range (%v, %v)", mode, body, p.Mid1Q, p.Mid2Q)
			}
		}
	}
}

func TestMapDynamicsRanges(t *testing.T) {
	for _, mode := range Modes() {
		tb := tableFor(mode)

		for _, v := range []float64{0, 0.2, 0.5, 0.8, 1} {
			d := MapDynamics(v, v, v, v, mode)

			lo := min(tb.threshLow, tb.threshHigh)
			hi := max(tb.threshLow, tb.threshHigh)
			if d.CompThreshold < lo || d.CompThreshold > hi {
				t.Errorf("%v v=%v: threshold %v outside [%v, %v]", mode, v, d.CompThreshold, lo, hi)
			}

			if d.CompRatio < 1 {
				t.Errorf("%v v=%v: ratio %v < 1", mode, v, d.CompRatio)
			}

			if d.CompAttack < 1 || d.CompAttack > 150 || d.CompRelease < 50 || d.CompRelease > 600 {
				t.Errorf("%v v=%v: times (%v, %v) out of range", mode, v, d.CompAttack, d.CompRelease)
			}

			if d.CompMakeupGain < 0 || d.CompMakeupGain > 8 {
				t.Errorf("%v v=%v: makeup %v", mode, v, d.CompMakeupGain)
			}

			if math.Abs(d.TransientAttack) > 1 || math.Abs(d.TransientSustain) > 1 {
				t.Errorf("%v v=%v: transient (%v, %v)", mode, v, d.TransientAttack, d.TransientSustain)
			}

			if d.DeesserFreq < 3000 || d.DeesserFreq > 9000 {
				t.Errorf("%v v=%v: de-esser freq %v", mode, v, d.DeesserFreq)
			}

			if d.DeesserRatio != tb.deesserRatio {
				t.Errorf("%v: de-esser ratio %v, want %v", mode, d.DeesserRatio, tb.deesserRatio)
			}
		}
	}
}

func TestMapDynamicsSpankRaisesRatio(t *testing.T) {
	soft := MapDynamics(0.5, 0.5, 0.5, 0.5, ModeRhythm)
	hard := MapDynamics(0.5, 0.5, 0.5, 1, ModeRhythm)

	if soft.CompRatio != rhythmTable.baseRatio {
		t.Fatalf("neutral ratio = %v, want %v", soft.CompRatio, rhythmTable.baseRatio)
	}

	if !(hard.CompRatio > soft.CompRatio) {
		t.Fatalf("spank must raise ratio: %v vs %v", hard.CompRatio, soft.CompRatio)
	}

	if !(hard.CompAttack > soft.CompAttack) {
		t.Fatalf("spank must slow attack: %v vs %v", hard.CompAttack, soft.CompAttack)
	}
}

func TestSaturationTypeFor(t *testing.T) {
	tests := []struct {
		mode      Mode
		character float64
		want      saturation.Curve
	}{
		{ModeRhythm, 0, saturation.Tape},
		{ModeRhythm, 0.4, saturation.Tube},
		{ModeRhythm, 1, saturation.Transistor},
		{ModeLead, 0.15, saturation.Tape},
		{ModeLead, 0.5, saturation.Tube},
		{ModeLead, 0.9, saturation.Exciter},
		{ModeClean, 0.3, saturation.Tape},
		{ModeClean, 0.5, saturation.Exciter},
		{ModeRhythm, math.NaN(), saturation.Tape},
	}

	for _, tt := range tests {
		if got := SaturationTypeFor(tt.character, tt.mode); got != tt.want {
			t.Errorf("SaturationTypeFor(%v, %v) = %v, want %v", tt.character, tt.mode, got, tt.want)
		}
	}
}

func TestMapSaturationCharacterGate(t *testing.T) {
	for _, mode := range Modes() {
		s := MapSaturation(0.005, 0.5, 0.5, mode)
		if s.Drive != 0 || s.Mix != 0 {
			t.Errorf("%v: character below 0.01 must leave drive/mix at 0, got %v/%v", mode, s.Drive, s.Mix)
		}

		full := MapSaturation(1, 0.5, 0.5, mode)
		tb := tableFor(mode)

		if math.Abs(full.Drive-tb.maxDrive) > 1e-12 || math.Abs(full.Mix-tb.mixMax) > 1e-12 {
			t.Errorf("%v: full character = %v/%v, want %v/%v", mode, full.Drive, full.Mix, tb.maxDrive, tb.mixMax)
		}

		if full.Tone != 0.5 || full.Bias != 0 {
			t.Errorf("%v: neutral tone/bias = %v/%v", mode, full.Tone, full.Bias)
		}
	}
}

func TestMapSaturationBiasFollowsBody(t *testing.T) {
	s := MapSaturation(0.5, 1, 0.5, ModeRhythm)

	want := math.Tanh(1.5) * rhythmTable.biasRange
	if math.Abs(s.Bias-want) > 1e-12 {
		t.Fatalf("Bias = %v, want %v", s.Bias, want)
	}
}

func TestMapAllIsPure(t *testing.T) {
	m := Macros{Character: 0.3, Thump: 0.9, Body: 0.1, Shimmer: 0.8, Spank: 0.6, Space: 0.4}

	for _, mode := range Modes() {
		a := MapAll(m, mode)
		b := MapAll(m, mode)

		if a != b {
			t.Fatalf("%v: MapAll differs between calls", mode)
		}
	}
}

func TestMapAllEffects(t *testing.T) {
	p := MapAll(Macros{Shimmer: 0.5}, ModeLead)

	if p.Effects.ShimmerPitch != 6 || p.Effects.ShimmerMix != 0.2 {
		t.Fatalf("effects = %+v", p.Effects)
	}

	if p.OutputAutoGain != 0 {
		t.Fatalf("MapAll must not compute autoGain, got %v", p.OutputAutoGain)
	}
}

func TestMapFallbackMode(t *testing.T) {
	m := DefaultMacros()
	m.Space = 1

	p := MapAll(m, Mode(7))

	if p.EQ.Mid1Q != 1 || p.EQ.Mid2Q != 1 {
		t.Errorf("fallback Q = (%v, %v), want (1, 1)", p.EQ.Mid1Q, p.EQ.Mid2Q)
	}

	if p.Dynamics.DeesserRatio != 2 {
		t.Errorf("fallback de-esser ratio = %v, want 2", p.Dynamics.DeesserRatio)
	}

	if math.Abs(p.Spatial.ReverbMix-cleanTable.maxReverbMix) > 1e-12 {
		t.Errorf("fallback reverb mix = %v, want clean %v", p.Spatial.ReverbMix, cleanTable.maxReverbMix)
	}

	if math.Abs(p.Spatial.ChorusRate-1) > 1e-12 || math.Abs(p.Spatial.ChorusDepth-0.6) > 1e-12 {
		t.Errorf("fallback chorus = (%v, %v), want (1, 0.6)", p.Spatial.ChorusRate, p.Spatial.ChorusDepth)
	}
}

func TestMapHandlesOutOfRangeMacros(t *testing.T) {
	m := Macros{Character: 3, Thump: -2, Body: math.NaN(), Shimmer: 9, Spank: -1, Space: 5}

	p := MapAll(m, ModeClean)
	p.OutputAutoGain = AutoGain(&p)

	if g := p.OutputAutoGain; !(g >= minAutoGain && g <= maxAutoGain) {
		t.Fatalf("autoGain = %v", g)
	}

	if p.Saturation.Drive > 1 || p.Saturation.Mix > 1 || p.Spatial.ReverbMix > cleanTable.maxReverbMix {
		t.Fatalf("clamped fields escaped: %+v %+v", p.Saturation, p.Spatial)
	}
}
