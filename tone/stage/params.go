package stage

import (
	"github.com/cwbudde/algo-tone/dsp/effects/saturation"
)

// EQParameters configures the six-band tonal EQ. Frequencies are in Hz and
// gains are linear.
type EQParameters struct {
	LowCutFreq float64

	LowShelfFreq float64
	LowShelfGain float64

	Mid1Freq float64
	Mid1Gain float64
	Mid1Q    float64

	Mid2Freq float64
	Mid2Gain float64
	Mid2Q    float64

	HighShelfFreq float64
	HighShelfGain float64

	AirBandFreq float64
	AirBandGain float64
}

// DefaultEQParameters returns a flat EQ.
func DefaultEQParameters() EQParameters {
	return EQParameters{
		LowCutFreq:    20,
		LowShelfFreq:  80,
		LowShelfGain:  1,
		Mid1Freq:      500,
		Mid1Gain:      1,
		Mid1Q:         1,
		Mid2Freq:      1500,
		Mid2Gain:      1,
		Mid2Q:         1,
		HighShelfFreq: 8000,
		HighShelfGain: 1,
		AirBandFreq:   12000,
		AirBandGain:   1,
	}
}

// DynamicsParameters configures the compressor, de-esser, transient shaper
// and makeup gain.
type DynamicsParameters struct {
	CompThreshold  float64 // dB
	CompRatio      float64
	CompAttack     float64 // ms
	CompRelease    float64 // ms
	CompMakeupGain float64 // dB

	DeesserFreq      float64 // Hz
	DeesserThreshold float64 // dB
	DeesserRatio     float64

	TransientAttack  float64 // [-1, 1]
	TransientSustain float64 // [-1, 1]
}

// DefaultDynamicsParameters returns a gentle 2:1 compression setting with
// a neutral transient shaper.
func DefaultDynamicsParameters() DynamicsParameters {
	return DynamicsParameters{
		CompThreshold:    -18,
		CompRatio:        2,
		CompAttack:       10,
		CompRelease:      120,
		DeesserFreq:      5500,
		DeesserThreshold: -20,
		DeesserRatio:     2,
	}
}

// SaturationParameters configures the oversampled waveshaper.
type SaturationParameters struct {
	Type  saturation.Curve
	Drive float64 // [0, 1], maps to 0..18 dB
	Mix   float64 // [0, 1]
	Tone  float64 // [0, 1]
	Bias  float64 // [-0.25, 0.25]
}

// DefaultSaturationParameters returns a Tape setting with zero drive, which
// bypasses the stage.
func DefaultSaturationParameters() SaturationParameters {
	return SaturationParameters{
		Type: saturation.Tape,
		Mix:  1,
		Tone: 0.5,
	}
}

// SpatialParameters configures delay, chorus, reverb and stereo width.
type SpatialParameters struct {
	ReverbSize    float64
	ReverbDamping float64
	ReverbWidth   float64
	ReverbMix     float64

	StereoWidth float64

	DelayTimeLeft  float64 // ms
	DelayTimeRight float64 // ms
	DelayFeedback  float64
	DelayMix       float64

	ChorusRate  float64 // Hz
	ChorusDepth float64
	ChorusMix   float64
}

// DefaultSpatialParameters returns a fully dry setting.
func DefaultSpatialParameters() SpatialParameters {
	return SpatialParameters{
		ReverbSize:     0.5,
		ReverbDamping:  0.5,
		ReverbWidth:    1,
		StereoWidth:    1,
		DelayTimeLeft:  250,
		DelayTimeRight: 375,
		DelayFeedback:  0.3,
		ChorusRate:     0.5,
		ChorusDepth:    0.3,
	}
}
