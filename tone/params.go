package tone

import "github.com/cwbudde/algo-tone/tone/stage"

// EffectsParameters carries auxiliary effect hints derived from shimmer.
// They are published for inspection; no stage consumes them.
type EffectsParameters struct {
	ShimmerPitch float64 // semitones
	ShimmerMix   float64
}

// EngineParameters is the complete per-block parameter set produced by
// Engine.Update.
type EngineParameters struct {
	EQ         stage.EQParameters
	Dynamics   stage.DynamicsParameters
	Saturation stage.SaturationParameters
	Spatial    stage.SpatialParameters
	Effects    EffectsParameters

	// OutputAutoGain is the linear loudness compensation applied after the
	// chain, in [0.25, 4].
	OutputAutoGain float64
}

// DefaultEngineParameters returns the stage defaults with unity autoGain.
func DefaultEngineParameters() EngineParameters {
	return EngineParameters{
		EQ:             stage.DefaultEQParameters(),
		Dynamics:       stage.DefaultDynamicsParameters(),
		Saturation:     stage.DefaultSaturationParameters(),
		Spatial:        stage.DefaultSpatialParameters(),
		OutputAutoGain: 1,
	}
}
