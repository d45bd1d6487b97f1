package stage

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/delay"
	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
	"github.com/cwbudde/algo-tone/dsp/filter/design"
	"github.com/cwbudde/algo-tone/dsp/resample"
)

const (
	saturationMaxDriveDB    = 18.0
	saturationCompensation  = 0.6
	saturationToneQ         = 0.707
	saturationToneMinFreq   = 2000.0
	saturationToneMaxFreq   = 8000.0
	saturationToneMinGain   = 0.5
	saturationToneMaxGain   = 2.0
	saturationMaxBias       = 0.25
	saturationBypassEpsilon = 1e-4
)

// Saturation is a 2× oversampled waveshaper with a post-shape tone shelf,
// output compensation and a dry/wet blend.
//
// The dry path is delayed by the oversampler latency so both paths stay
// aligned at every mix setting.
type Saturation struct {
	params SaturationParameters

	driveGain float64
	bias      float64
	comp      float64

	os       *resample.Oversampler
	tone     *biquad.Bank
	dryLines []*delay.Line
	dry      *buffer.Buffer
	mixer    *buffer.Mixer
	up       []float64

	osOpts     []resample.Option
	sampleRate float64
	active     bool
}

// NewSaturation returns an unprepared saturation stage with default
// parameters. The options configure the oversampler built by Prepare.
func NewSaturation(opts ...resample.Option) *Saturation {
	return &Saturation{
		params:    DefaultSaturationParameters(),
		driveGain: 1,
		comp:      1,
		osOpts:    opts,
	}
}

// Prepare builds the oversampler, tone filters and dry path for cfg.
func (s *Saturation) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ovs, err := resample.NewOversampler(cfg.Channels, s.osOpts...)
	if err != nil {
		return fmt.Errorf("stage: saturation oversampler: %w", err)
	}

	lines := make([]*delay.Line, cfg.Channels)
	for ch := range lines {
		line, err := delay.New(ovs.Latency() + 2)
		if err != nil {
			return fmt.Errorf("stage: saturation dry delay: %w", err)
		}

		lines[ch] = line
	}

	s.os = ovs
	s.dryLines = lines
	s.sampleRate = cfg.SampleRate
	s.tone = biquad.NewBank(cfg.Channels)
	s.dry = buffer.New(cfg.Channels, cfg.BlockSize)
	s.mixer = buffer.NewMixer(cfg.Channels, cfg.BlockSize)
	s.up = make([]float64, 2*cfg.BlockSize)
	s.active = false

	s.update()

	return nil
}

// SetParameters applies p. Drive, mix and tone are clamped to [0, 1] and
// bias to [-0.25, 0.25].
func (s *Saturation) SetParameters(p SaturationParameters) {
	s.params = p
	if s.os != nil {
		s.update()
	}
}

// Parameters returns the parameters as last set.
func (s *Saturation) Parameters() SaturationParameters { return s.params }

// Bypassed reports whether mix or drive is at or below 1e-4.
func (s *Saturation) Bypassed() bool {
	return !(s.params.Mix > saturationBypassEpsilon) || !(s.params.Drive > saturationBypassEpsilon)
}

// Latency returns the delay in samples the stage adds while active.
func (s *Saturation) Latency() int {
	if s.os == nil {
		return 0
	}

	return s.os.Latency()
}

// Process shapes b in place.
func (s *Saturation) Process(b *buffer.Buffer) {
	if s.os == nil || s.Bypassed() {
		s.active = false
		return
	}

	nch := min(b.NumChannels(), s.os.NumChannels())
	n := b.Len()

	if nch == 0 || n == 0 {
		return
	}

	// Entering from bypass: stale filter history would click.
	if !s.active {
		s.Reset()
		s.active = true
	}

	if len(s.up) < 2*n {
		s.up = make([]float64, 2*n)
	}

	s.dry.SetLen(n)

	tap := s.os.Latency() + 1
	for ch := range nch {
		line := s.dryLines[ch]
		dst := s.dry.Channel(ch)

		for i, x := range b.Channel(ch) {
			line.Write(x)
			dst[i] = line.Read(tap)
		}
	}

	up := s.up[:2*n]
	for ch := range nch {
		buf := b.Channel(ch)

		s.os.Upsample(ch, buf, up)
		s.params.Type.ShapeBlock(up, s.bias, s.driveGain)
		s.tone.ProcessChannel(ch, up)
		s.os.Downsample(ch, up, buf)

		vecmath.ScaleBlock(buf, buf, s.comp)
	}

	s.mixer.PushDry(s.dry)
	s.mixer.MixWet(b)
}

// Reset clears oversampler, tone filter and dry-path state.
func (s *Saturation) Reset() {
	if s.os == nil {
		return
	}

	s.os.Reset()
	s.tone.Reset()

	for _, line := range s.dryLines {
		line.Reset()
	}

	s.mixer.Reset()
}

func (s *Saturation) update() {
	p := &s.params

	drive := core.ClampFinite(p.Drive, 0, 1, 0)
	tone := core.ClampFinite(p.Tone, 0, 1, 0.5)

	s.bias = core.ClampFinite(p.Bias, -saturationMaxBias, saturationMaxBias, 0)
	s.driveGain = math.Pow(10, saturationMaxDriveDB*drive/20)
	s.comp = 1 / max(1, s.driveGain*saturationCompensation)

	// The shelf runs on the oversampled signal.
	s.tone.SetCoefficients(design.HighShelfGain(
		core.Jmap(tone, saturationToneMinFreq, saturationToneMaxFreq),
		core.Jmap(tone, saturationToneMinGain, saturationToneMaxGain),
		saturationToneQ,
		2*s.sampleRate,
	))

	s.mixer.SetWetMix(p.Mix)
}
