package tone

// Indices into Engine.smoothers.
const (
	smLowCutFreq = iota
	smLowShelfGain
	smMid1Freq
	smMid1Gain
	smMid2Freq
	smMid2Gain
	smHighShelfFreq
	smHighShelfGain
	smAirBandFreq
	smAirBandGain
	smCompThreshold
	smCompMakeup
	smSaturationMix
	smReverbMix
	smDelayMix
	smChorusMix
	numSmoothed
)

// smoothedFields returns pointers to the ramped fields of p, indexed by
// the sm* constants.
func smoothedFields(p *EngineParameters) [numSmoothed]*float64 {
	return [numSmoothed]*float64{
		smLowCutFreq:    &p.EQ.LowCutFreq,
		smLowShelfGain:  &p.EQ.LowShelfGain,
		smMid1Freq:      &p.EQ.Mid1Freq,
		smMid1Gain:      &p.EQ.Mid1Gain,
		smMid2Freq:      &p.EQ.Mid2Freq,
		smMid2Gain:      &p.EQ.Mid2Gain,
		smHighShelfFreq: &p.EQ.HighShelfFreq,
		smHighShelfGain: &p.EQ.HighShelfGain,
		smAirBandFreq:   &p.EQ.AirBandFreq,
		smAirBandGain:   &p.EQ.AirBandGain,
		smCompThreshold: &p.Dynamics.CompThreshold,
		smCompMakeup:    &p.Dynamics.CompMakeupGain,
		smSaturationMix: &p.Saturation.Mix,
		smReverbMix:     &p.Spatial.ReverbMix,
		smDelayMix:      &p.Spatial.DelayMix,
		smChorusMix:     &p.Spatial.ChorusMix,
	}
}

// smooth replaces the ramped fields of p with their smoothed values after
// n samples. The first call after Prepare jumps straight to the targets.
func (e *Engine) smooth(p *EngineParameters, n int) {
	fields := smoothedFields(p)

	for i, f := range fields {
		s := &e.smoothers[i]
		if !e.primed {
			s.SetCurrentAndTarget(*f)
			continue
		}

		s.SetTarget(*f)
		*f = s.Skip(n)
	}

	e.primed = true
}
