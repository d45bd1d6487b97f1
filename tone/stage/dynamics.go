package stage

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/effects/dynamics"
)

// Dynamics runs compressor, de-esser, transient shaper and makeup gain in
// that order.
type Dynamics struct {
	params DynamicsParameters
	makeup float64

	comp      *dynamics.Compressor
	deesser   *dynamics.DeEsser
	transient *dynamics.TransientShaper
}

// NewDynamics returns an unprepared dynamics stage with default parameters.
func NewDynamics() *Dynamics {
	return &Dynamics{params: DefaultDynamicsParameters(), makeup: 1}
}

// Prepare builds the processors for cfg and applies the current parameters.
func (d *Dynamics) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	comp, err := dynamics.NewCompressor(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("stage: dynamics compressor: %w", err)
	}

	deesser, err := dynamics.NewDeEsser(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return fmt.Errorf("stage: dynamics de-esser: %w", err)
	}

	transient, err := dynamics.NewTransientShaper(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("stage: dynamics transient shaper: %w", err)
	}

	d.comp, d.deesser, d.transient = comp, deesser, transient
	d.update()

	return nil
}

// SetParameters applies p to every sub-processor.
func (d *Dynamics) SetParameters(p DynamicsParameters) {
	d.params = p
	if d.comp != nil {
		d.update()
	}
}

// Parameters returns the parameters as last set.
func (d *Dynamics) Parameters() DynamicsParameters { return d.params }

// Bypassed reports whether the stage is neutral: ratio within 0.01 of 1,
// threshold above 0 dB and both transient amounts below 0.001.
func (d *Dynamics) Bypassed() bool {
	p := &d.params

	return math.Abs(p.CompRatio-1) < 0.01 &&
		p.CompThreshold > 0 &&
		math.Abs(p.TransientAttack) < 0.001 &&
		math.Abs(p.TransientSustain) < 0.001
}

// DeEsserGain returns the linear cut currently applied by the de-esser.
func (d *Dynamics) DeEsserGain() float64 {
	if d.deesser == nil {
		return 1
	}

	return d.deesser.Gain()
}

// Process applies the dynamics chain to b in place.
func (d *Dynamics) Process(b *buffer.Buffer) {
	if d.comp == nil || d.Bypassed() || b.NumChannels() == 0 || b.Len() == 0 {
		return
	}

	d.comp.Process(b)
	d.deesser.Process(b)
	d.transient.Process(b)

	if d.makeup != 1 {
		b.Scale(d.makeup)
	}
}

// Reset clears detector, filter and envelope state.
func (d *Dynamics) Reset() {
	if d.comp == nil {
		return
	}

	d.comp.Reset()
	d.deesser.Reset()
	d.transient.Reset()
}

func (d *Dynamics) update() {
	p := &d.params

	d.comp.SetThreshold(p.CompThreshold)
	d.comp.SetRatio(p.CompRatio)
	d.comp.SetAttack(p.CompAttack)
	d.comp.SetRelease(p.CompRelease)

	d.deesser.SetFrequency(p.DeesserFreq)
	d.deesser.SetThreshold(p.DeesserThreshold)
	d.deesser.SetRatio(p.DeesserRatio)

	d.transient.SetAttackAmount(p.TransientAttack)
	d.transient.SetSustainAmount(p.TransientSustain)

	d.makeup = dynamics.DBToGain(p.CompMakeupGain)
	if !core.IsFinite(d.makeup) {
		d.makeup = 1
	}
}
