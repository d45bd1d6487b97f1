package tone

import "github.com/cwbudde/algo-tone/dsp/effects/saturation"

// modeTable holds every mode-dependent constant of the mapping.
type modeTable struct {
	// EQ
	lowCutMin, lowCutMax float64
	lowShelfFreq         float64
	lowShelfDBScale      float64
	mid1Base, mid2Base   float64
	highShelfBase        float64
	airBase              float64
	mid1RangeDB          float64
	mid2RangeDB          float64
	highShelfRangeDB     float64
	airRangeDB           float64
	baseQ1, baseQ2       float64
	thumpLowMid          bool

	// Dynamics
	threshHigh, threshLow float64
	baseRatio, ratioExtra float64
	baseAttack            float64
	baseRelease           float64
	spankAttack           float64
	spankAttackCut        float64
	spankRelease          float64
	makeupBody            float64
	makeupThumpMax        float64
	makeupSpankBoost      float64
	makeupSpankCut        float64
	transientAttack       float64
	deesserCentre         float64
	deesserRatio          float64

	// Saturation
	typeTape, typeTube float64 // cNorm thresholds; typeTube 0 means no Tube band
	typeHot            saturation.Curve
	maxDrive           float64
	mixBase, mixMax    float64
	toneSpan           float64
	biasRange          float64

	// Spatial
	maxReverbMix     float64
	maxChorusMix     float64
	maxDelayMix      float64
	widthMax         float64
	sizeMin, sizeMax float64
	delayBase        float64
	delaySpan        float64
	fbMin, fbMax     float64
	delayWeight      float64
	chorusRateMax    float64
	chorusDepthMax   float64
}

var (
	rhythmTable = modeTable{
		lowCutMin: 40, lowCutMax: 140, lowShelfFreq: 100, lowShelfDBScale: 6,
		mid1Base: 800, mid2Base: 2000, highShelfBase: 8000, airBase: 12000,
		mid1RangeDB: 5, mid2RangeDB: 3, highShelfRangeDB: 2.5, airRangeDB: 2,
		baseQ1: 1, baseQ2: 1, thumpLowMid: true,

		threshHigh: 3, threshLow: -24, baseRatio: 1.8, ratioExtra: 3.0,
		baseAttack: 12, baseRelease: 160,
		spankAttack: 90, spankAttackCut: 10, spankRelease: -120,
		makeupBody: 3, makeupThumpMax: 4, makeupSpankBoost: 0.5, makeupSpankCut: 1.5,
		transientAttack: 0.9, deesserCentre: 5500, deesserRatio: 2,

		typeTape: 0.35, typeTube: 0.70, typeHot: saturation.Transistor,
		maxDrive: 0.9, mixBase: 0, mixMax: 0.6, toneSpan: 0.18, biasRange: 0.12,

		maxReverbMix: 0.35, maxChorusMix: 0.25, maxDelayMix: 0.25, widthMax: 1.10,
		sizeMin: 0.10, sizeMax: 0.50, delayBase: 260, delaySpan: 140,
		fbMin: 0.15, fbMax: 0.45, delayWeight: 0.6,
		chorusRateMax: 0.9, chorusDepthMax: 0.5,
	}

	leadTable = modeTable{
		lowCutMin: 60, lowCutMax: 180, lowShelfFreq: 110, lowShelfDBScale: 5,
		mid1Base: 1200, mid2Base: 2300, highShelfBase: 7500, airBase: 11000,
		mid1RangeDB: 6, mid2RangeDB: 4, highShelfRangeDB: 2, airRangeDB: 1.5,
		baseQ1: 1, baseQ2: 1, thumpLowMid: true,

		threshHigh: 1, threshLow: -28, baseRatio: 2.0, ratioExtra: 1.3,
		baseAttack: 10, baseRelease: 150,
		spankAttack: 50, spankAttackCut: 8, spankRelease: -60,
		makeupBody: 4, makeupThumpMax: 3.5, makeupSpankBoost: 0.7, makeupSpankCut: 1.0,
		transientAttack: 0.9, deesserCentre: 6000, deesserRatio: 2,

		typeTape: 0.30, typeTube: 0.70, typeHot: saturation.Exciter,
		maxDrive: 1.0, mixBase: 0.1, mixMax: 0.85, toneSpan: 0.15, biasRange: 0.12,

		maxReverbMix: 0.40, maxChorusMix: 0.35, maxDelayMix: 0.30, widthMax: 1.25,
		sizeMin: 0.25, sizeMax: 0.80, delayBase: 280, delaySpan: 180,
		fbMin: 0.20, fbMax: 0.55, delayWeight: 0.8,
		chorusRateMax: 1.0, chorusDepthMax: 0.6,
	}

	cleanTable = modeTable{
		lowCutMin: 50, lowCutMax: 160, lowShelfFreq: 120, lowShelfDBScale: 4,
		mid1Base: 3000, mid2Base: 1500, highShelfBase: 9000, airBase: 13000,
		mid1RangeDB: 4, mid2RangeDB: 3, highShelfRangeDB: 3, airRangeDB: 2,
		baseQ1: 0.9, baseQ2: 1.1,

		threshHigh: 4, threshLow: -12, baseRatio: 1.2, ratioExtra: 0.6,
		baseAttack: 12, baseRelease: 180,
		spankAttack: 35, spankAttackCut: 6, spankRelease: -40,
		makeupBody: 2.5, makeupThumpMax: 3, makeupSpankBoost: 0.5, makeupSpankCut: 0.7,
		transientAttack: 0.7, deesserCentre: 6500, deesserRatio: 1.5,

		typeTape: 0.50, typeHot: saturation.Exciter,
		maxDrive: 0.4, mixBase: 0, mixMax: 0.35, toneSpan: 0.20, biasRange: 0.08,

		maxReverbMix: 0.65, maxChorusMix: 0.50, maxDelayMix: 0.40, widthMax: 1.40,
		sizeMin: 0.40, sizeMax: 1.00, delayBase: 300, delaySpan: 200,
		fbMin: 0.20, fbMax: 0.60, delayWeight: 0.7,
		chorusRateMax: 1.2, chorusDepthMax: 0.7,
	}

	// fallbackTable serves out-of-range modes. It follows the clean table
	// except where a constant is chosen by an explicit mode test.
	fallbackTable = func() modeTable {
		t := cleanTable
		t.baseQ1, t.baseQ2 = 1, 1
		t.makeupBody = 0
		t.deesserRatio = 2
		t.biasRange = 0.12
		t.delayWeight = 0.6
		t.chorusRateMax, t.chorusDepthMax = 1.0, 0.6

		return t
	}()
)

func tableFor(mode Mode) *modeTable {
	switch mode {
	case ModeRhythm:
		return &rhythmTable
	case ModeLead:
		return &leadTable
	case ModeClean:
		return &cleanTable
	default:
		return &fallbackTable
	}
}
