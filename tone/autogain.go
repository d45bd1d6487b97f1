package tone

import (
	"math"

	"github.com/cwbudde/algo-tone/dsp/core"
)

const (
	minAutoGain = 0.25
	maxAutoGain = 4.0
)

// eqGainWeights weight low shelf, mid1, mid2, high shelf and air band.
var eqGainWeights = [5]float64{0.25, 0.35, 0.25, 0.10, 0.05}

// AutoGain estimates the loudness change of p's chain and returns the
// linear gain that compensates it, clamped to [0.25, 4].
//
// Each stage contributes a bounded multiplicative estimate. An estimate
// that turns out NaN counts as unity, so the result is finite for any
// input.
func AutoGain(p *EngineParameters) float64 {
	total := eqEstimate(p) * dynamicsEstimate(p) * saturationEstimate(p) * spatialEstimate(p)
	if !core.IsFinite(total) || total <= 0 {
		return 1
	}

	return core.Clamp(1/total, minAutoGain, maxAutoGain)
}

func eqEstimate(p *EngineParameters) float64 {
	gains := [5]float64{
		p.EQ.LowShelfGain,
		p.EQ.Mid1Gain,
		p.EQ.Mid2Gain,
		p.EQ.HighShelfGain,
		p.EQ.AirBandGain,
	}

	var sum, wsum float64
	for i, g := range gains {
		sum += eqGainWeights[i] * g
		wsum += eqGainWeights[i]
	}

	return estimate(sum/wsum, 0.5, 2)
}

func dynamicsEstimate(p *EngineParameters) float64 {
	d := &p.Dynamics
	ratio := core.Clamp(d.CompRatio, 1, 4)

	return estimate((1/ratio)*(1+0.4*d.TransientSustain)*(1-0.2*d.TransientAttack), 0.7, 1.3)
}

func saturationEstimate(p *EngineParameters) float64 {
	s := &p.Saturation

	return estimate(1-0.2*core.Clamp(s.Drive, 0, 1)-0.15*core.Clamp(s.Mix, 0, 1), 0.7, 1.2)
}

func spatialEstimate(p *EngineParameters) float64 {
	sp := &p.Spatial
	r := core.Clamp(sp.ReverbMix, 0, 1)
	d := core.Clamp(sp.DelayMix, 0, 1)
	c := core.Clamp(sp.ChorusMix, 0, 1)

	return estimate(1-0.35*r-0.25*d-0.15*c, 0.6, 1.1)
}

func estimate(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 1
	}

	return core.Clamp(v, lo, hi)
}
