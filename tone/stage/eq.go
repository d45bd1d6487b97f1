package stage

import (
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
	"github.com/cwbudde/algo-tone/dsp/filter/design"
)

const (
	eqLowCut = iota
	eqLowShelf
	eqMid1
	eqMid2
	eqHighShelf
	eqAirBand
	numEQBands
)

const (
	eqShelfQ      = 0.7
	eqMinFreq     = 20.0
	eqMaxFreqFrac = 0.45
	eqMinGain     = 0.05
	eqMaxGain     = 8.0
	eqMinQ        = 0.2
	eqMaxQ        = 4.0
	eqFlatEpsilon = 0.001
)

// EQ is a six-band cascade per channel: low-cut high-pass, low shelf,
// two peaks, high shelf and an air-band high shelf. Coefficients are
// recomputed in full on every SetParameters.
type EQ struct {
	cfg      core.ProcessorConfig
	params   EQParameters
	banks    [numEQBands]*biquad.Bank
	prepared bool
}

// NewEQ returns an unprepared EQ holding the flat default parameters.
func NewEQ() *EQ {
	return &EQ{params: DefaultEQParameters()}
}

// Prepare allocates one filter section per band and channel.
func (e *EQ) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.cfg = cfg
	for i := range e.banks {
		e.banks[i] = biquad.NewBank(cfg.Channels)
	}

	e.prepared = true
	e.update()

	return nil
}

// SetParameters stores p and redesigns all six bands.
func (e *EQ) SetParameters(p EQParameters) {
	e.params = p
	if e.prepared {
		e.update()
	}
}

// Parameters returns the parameters as last set, before clamping.
func (e *EQ) Parameters() EQParameters { return e.params }

// Bypassed reports whether all five gain bands are within 0.001 of unity.
// The low-cut filter alone does not keep the stage active.
func (e *EQ) Bypassed() bool {
	p := &e.params

	return math.Abs(p.LowShelfGain-1) < eqFlatEpsilon &&
		math.Abs(p.Mid1Gain-1) < eqFlatEpsilon &&
		math.Abs(p.Mid2Gain-1) < eqFlatEpsilon &&
		math.Abs(p.HighShelfGain-1) < eqFlatEpsilon &&
		math.Abs(p.AirBandGain-1) < eqFlatEpsilon
}

// Process filters b in place. Channels beyond the prepared count pass
// through.
func (e *EQ) Process(b *buffer.Buffer) {
	if !e.prepared || e.Bypassed() {
		return
	}

	for ch := range b.NumChannels() {
		buf := b.Channel(ch)
		for _, bank := range e.banks {
			bank.ProcessChannel(ch, buf)
		}
	}
}

// Reset clears filter memory and keeps the current coefficients.
func (e *EQ) Reset() {
	for _, bank := range e.banks {
		if bank != nil {
			bank.Reset()
		}
	}
}

// Coefficients returns the designed sections in processing order.
func (e *EQ) Coefficients() []biquad.Coefficients {
	out := make([]biquad.Coefficients, 0, numEQBands)
	for _, bank := range e.banks {
		if bank == nil {
			return nil
		}

		out = append(out, bank.Coefficients())
	}

	return out
}

// MagnitudeDB returns the combined response of the six bands at freq.
// It ignores bypass.
func (e *EQ) MagnitudeDB(freq float64) float64 {
	if !e.prepared {
		return 0
	}

	return biquad.CascadeMagnitudeDB(freq, e.cfg.SampleRate, e.Coefficients()...)
}

func (e *EQ) update() {
	fs := e.cfg.SampleRate
	p := &e.params

	freq := func(f float64) float64 {
		return core.ClampFinite(f, eqMinFreq, fs*eqMaxFreqFrac, eqMinFreq)
	}

	e.banks[eqLowCut].SetCoefficients(design.Highpass(freq(p.LowCutFreq), design.Butterworth, fs))
	e.banks[eqLowShelf].SetCoefficients(design.LowShelfGain(freq(p.LowShelfFreq), safeGain(p.LowShelfGain), eqShelfQ, fs))
	e.banks[eqMid1].SetCoefficients(design.PeakGain(freq(p.Mid1Freq), safeGain(p.Mid1Gain), safeQ(p.Mid1Q), fs))
	e.banks[eqMid2].SetCoefficients(design.PeakGain(freq(p.Mid2Freq), safeGain(p.Mid2Gain), safeQ(p.Mid2Q), fs))
	e.banks[eqHighShelf].SetCoefficients(design.HighShelfGain(freq(p.HighShelfFreq), safeGain(p.HighShelfGain), eqShelfQ, fs))
	e.banks[eqAirBand].SetCoefficients(design.HighShelfGain(freq(p.AirBandFreq), safeGain(p.AirBandGain), eqShelfQ, fs))
}

// safeGain maps non-finite or non-positive gains to unity and clamps the
// rest to [0.05, 8].
func safeGain(g float64) float64 {
	if !core.IsFinite(g) || g <= 0 {
		return 1
	}

	return core.Clamp(g, eqMinGain, eqMaxGain)
}

func safeQ(q float64) float64 {
	return core.ClampFinite(q, eqMinQ, eqMaxQ, 1)
}
