package tone

import (
	"math"

	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/effects/saturation"
	"github.com/cwbudde/algo-tone/tone/stage"
)

const curveDeadZone = 0.15

// centre maps a dial in [0, 1] onto [-1, 1].
func centre(v float64) float64 { return (v - 0.5) * 2 }

// musicalCurve shapes a centred dial: a dead zone of ±0.15 around zero,
// then a tanh knee over the remaining travel.
func musicalCurve(x float64) float64 {
	if math.Abs(x) < curveDeadZone {
		return 0
	}

	s := 1.0
	if x < 0 {
		s = -1
	}

	m := core.Clamp((math.Abs(x)-curveDeadZone)/(1-curveDeadZone), 0, 1)

	return math.Tanh(1.5 * m * s)
}

func dialCurve(v float64) float64 { return musicalCurve(centre(v)) }

// MapEQ derives the EQ stage parameters from thump, body and shimmer.
// Character is accepted for symmetry with the other groups and unused.
func MapEQ(_, thump, body, shimmer float64, mode Mode) stage.EQParameters {
	tb := tableFor(mode)
	t, b, sh := dialCurve(thump), dialCurve(body), dialCurve(shimmer)

	var p stage.EQParameters

	p.LowCutFreq = core.Jmap(max(0, t), tb.lowCutMin, tb.lowCutMax)
	p.LowShelfFreq = tb.lowShelfFreq + 15*t
	p.LowShelfGain = core.DBToLinear(tb.lowShelfDBScale * t)

	p.Mid1Freq = tb.mid1Base + 350*b
	p.Mid2Freq = tb.mid2Base + 250*b

	if b < 0 {
		p.Mid1Q = tb.baseQ1 - 0.3*math.Abs(b)
		p.Mid2Q = tb.baseQ2 - 0.2*math.Abs(b)
	} else {
		p.Mid1Q = tb.baseQ1 + 0.2*b
		p.Mid2Q = tb.baseQ2 + 0.3*b
	}

	p.Mid1Q = core.Clamp(p.Mid1Q, 0.4, 2.5)
	p.Mid2Q = core.Clamp(p.Mid2Q, 0.4, 2.5)

	mid1DB := b * tb.mid1RangeDB
	if tb.thumpLowMid {
		mid1DB += 2.5 * t
	}

	p.Mid1Gain = core.DBToLinear(mid1DB)
	p.Mid2Gain = core.DBToLinear(0.5 * b * tb.mid2RangeDB)

	p.HighShelfFreq = tb.highShelfBase + 1200*sh
	p.AirBandFreq = tb.airBase + 1600*sh
	p.HighShelfGain = core.DBToLinear(sh * tb.highShelfRangeDB)
	p.AirBandGain = core.DBToLinear(sh * tb.airRangeDB)

	return p
}

// MapDynamics derives compressor, de-esser and transient settings from
// thump, body, shimmer and spank.
func MapDynamics(thump, body, shimmer, spank float64, mode Mode) stage.DynamicsParameters {
	tb := tableFor(mode)
	t, b, sh, k := dialCurve(thump), dialCurve(body), dialCurve(shimmer), dialCurve(spank)
	kPos := max(0, k)

	var d stage.DynamicsParameters

	d.CompThreshold = tb.threshHigh + (0.5+0.3*k)*(tb.threshLow-tb.threshHigh)
	d.CompRatio = max(1, tb.baseRatio+kPos*tb.ratioExtra)

	atk := tb.baseAttack - 5*t - 6*t
	rel := tb.baseRelease + 40*t + 20*t

	atk += kPos * tb.spankAttack
	if k < 0 {
		atk += k * tb.spankAttackCut
	}

	if k > 0 {
		rel += kPos * tb.spankRelease
	}

	d.CompAttack = core.Clamp(atk, 1, 150)
	d.CompRelease = core.Clamp(rel, 50, 600)

	makeup := b*tb.makeupBody + core.Clamp(4*t, 0, tb.makeupThumpMax)
	if k >= 0 {
		makeup += k * tb.makeupSpankBoost
	} else {
		makeup += k * tb.makeupSpankCut
	}

	d.CompMakeupGain = core.Clamp(makeup, 0, 8)

	d.TransientAttack = core.Clamp(k*tb.transientAttack, -1, 1)

	var sus float64

	switch mode {
	case ModeRhythm:
		sus = 0.5*b + 0.3*t
	case ModeLead:
		sus = 0.7*b + 0.3*kPos + 0.3*t
	default:
		sus = 0.5*b + 0.2*t
	}

	d.TransientSustain = core.Clamp(sus, -1, 1)

	d.DeesserFreq = core.Clamp(tb.deesserCentre+1500*sh, 3000, 9000)
	d.DeesserThreshold = -20 - 3*sh
	d.DeesserRatio = tb.deesserRatio

	return d
}

// SaturationTypeFor selects the waveshaping curve for a character setting.
func SaturationTypeFor(character float64, mode Mode) saturation.Curve {
	cNorm := math.Pow(core.ClampFinite(character, 0, 1, 0), 0.75)

	return curveFor(cNorm, tableFor(mode))
}

func curveFor(cNorm float64, tb *modeTable) saturation.Curve {
	switch {
	case cNorm < tb.typeTape:
		return saturation.Tape
	case cNorm < tb.typeTube:
		return saturation.Tube
	default:
		return tb.typeHot
	}
}

// MapSaturation derives the waveshaper settings from character, body and
// shimmer.
func MapSaturation(character, body, shimmer float64, mode Mode) stage.SaturationParameters {
	tb := tableFor(mode)
	c := core.ClampFinite(character, 0, 1, 0)
	b, sh := dialCurve(body), dialCurve(shimmer)

	s := stage.SaturationParameters{
		Type: curveFor(math.Pow(c, 0.75), tb),
	}

	if c >= 0.01 {
		s.Drive = core.Clamp(math.Pow(c, 0.9)*tb.maxDrive, 0, 1)
		s.Mix = core.Clamp(tb.mixBase+math.Pow(c, 0.6)*(tb.mixMax-tb.mixBase), 0, 1)
	}

	s.Tone = core.Clamp(0.5+sh*tb.toneSpan, 0, 1)
	s.Bias = core.Clamp(b*tb.biasRange, -0.25, 0.25)

	return s
}

// MapSpatial derives the delay, chorus, reverb and width settings from
// body, shimmer and space. Shimmer is accepted for symmetry and unused.
func MapSpatial(body, _, space float64, mode Mode) stage.SpatialParameters {
	tb := tableFor(mode)
	b := dialCurve(body)
	amt := core.ClampFinite(space, 0, 1, 0)

	var sp stage.SpatialParameters

	sp.ReverbMix = amt * tb.maxReverbMix
	sp.ReverbSize = core.Jmap(amt, tb.sizeMin, tb.sizeMax)
	sp.ReverbDamping = core.Clamp(0.55-0.25*b, 0, 1)
	sp.ReverbWidth = 1

	sp.DelayMix = core.Clamp(tb.maxDelayMix*amt*tb.delayWeight, 0, tb.maxDelayMix)
	sp.DelayTimeLeft = tb.delayBase + amt*tb.delaySpan
	sp.DelayTimeRight = 1.5 * sp.DelayTimeLeft
	sp.DelayFeedback = core.Jmap(amt, tb.fbMin, tb.fbMax)

	sp.ChorusMix = tb.maxChorusMix * amt
	sp.ChorusRate = core.Jmap(amt, 0.1, tb.chorusRateMax)
	sp.ChorusDepth = core.Jmap(amt, 0.2, tb.chorusDepthMax)

	sp.StereoWidth = core.Jmap(amt, 1, tb.widthMax)

	return sp
}

// MapAll maps every parameter group and the shimmer effect hints. The
// autoGain field is left at zero; Engine.Update fills it in.
func MapAll(m Macros, mode Mode) EngineParameters {
	return EngineParameters{
		EQ:         MapEQ(m.Character, m.Thump, m.Body, m.Shimmer, mode),
		Dynamics:   MapDynamics(m.Thump, m.Body, m.Shimmer, m.Spank, mode),
		Saturation: MapSaturation(m.Character, m.Body, m.Shimmer, mode),
		Spatial:    MapSpatial(m.Body, m.Shimmer, m.Space, mode),
		Effects: EffectsParameters{
			ShimmerPitch: m.Shimmer * 12,
			ShimmerMix:   m.Shimmer * 0.4,
		},
	}
}
