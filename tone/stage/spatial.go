package stage

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/delay"
	"github.com/cwbudde/algo-tone/dsp/effects/modulation"
	"github.com/cwbudde/algo-tone/dsp/effects/reverb"
	"github.com/cwbudde/algo-tone/dsp/effects/spatial"
)

const (
	spatialMaxDelaySec     = 1.5
	spatialChorusCentreMs  = 7.0
	spatialMinChorusRate   = 0.01
	spatialMaxChorusRate   = 5.0
	spatialMaxFeedback     = 0.99
	spatialMaxWidth        = 2.0
	spatialBypassEpsilon   = 1e-4
	spatialWidthNeutralEps = 0.001
)

// Spatial runs delay, chorus, reverb and stereo width in series. Delay,
// chorus and reverb each have their own dry/wet mixer; the output of one
// is the dry signal of the next.
type Spatial struct {
	params SpatialParameters

	sampleRate float64
	maxDelay   int
	delayL     float64 // samples
	delayR     float64 // samples
	feedback   float64

	lines  []*delay.Line
	chorus *modulation.Chorus
	reverb *reverb.Reverb
	width  *spatial.StereoWidener

	delayMix  *buffer.Mixer
	chorusMix *buffer.Mixer
	reverbMix *buffer.Mixer
}

// NewSpatial returns an unprepared spatial stage with dry defaults.
func NewSpatial() *Spatial {
	return &Spatial{params: DefaultSpatialParameters()}
}

// Prepare allocates delay lines holding up to 1.5 s and builds the chorus,
// reverb and width processors.
func (s *Spatial) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	maxDelay := int(math.Round(cfg.SampleRate * spatialMaxDelaySec))

	lines := make([]*delay.Line, cfg.Channels)
	for ch := range lines {
		line, err := delay.New(maxDelay + 2)
		if err != nil {
			return fmt.Errorf("stage: spatial delay: %w", err)
		}

		lines[ch] = line
	}

	chorus, err := modulation.NewChorus(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return fmt.Errorf("stage: spatial chorus: %w", err)
	}

	chorus.SetCentreDelay(spatialChorusCentreMs)
	chorus.SetFeedback(0)
	chorus.SetMix(0.5)

	rv, err := reverb.NewReverb(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("stage: spatial reverb: %w", err)
	}

	rv.SetWetLevel(1)
	rv.SetDryLevel(0)

	width, err := spatial.NewStereoWidener()
	if err != nil {
		return fmt.Errorf("stage: spatial width: %w", err)
	}

	s.sampleRate = cfg.SampleRate
	s.maxDelay = maxDelay
	s.lines = lines
	s.chorus = chorus
	s.reverb = rv
	s.width = width
	s.delayMix = buffer.NewMixer(cfg.Channels, cfg.BlockSize)
	s.chorusMix = buffer.NewMixer(cfg.Channels, cfg.BlockSize)
	s.reverbMix = buffer.NewMixer(cfg.Channels, cfg.BlockSize)

	s.update()

	return nil
}

// SetParameters applies p to every sub-processor.
func (s *Spatial) SetParameters(p SpatialParameters) {
	s.params = p
	if s.lines != nil {
		s.update()
	}
}

// Parameters returns the parameters as last set.
func (s *Spatial) Parameters() SpatialParameters { return s.params }

// Bypassed reports whether every wet mix is at or below 1e-4 and the
// stereo width is within 0.001 of 1.
func (s *Spatial) Bypassed() bool {
	p := &s.params

	return !(p.ReverbMix > spatialBypassEpsilon) &&
		!(p.DelayMix > spatialBypassEpsilon) &&
		!(p.ChorusMix > spatialBypassEpsilon) &&
		math.Abs(p.StereoWidth-1) < spatialWidthNeutralEps
}

// DelaySamples returns the left and right delay times in samples after
// clamping.
func (s *Spatial) DelaySamples() (left, right float64) {
	return s.delayL, s.delayR
}

// Process applies the spatial chain to b in place.
func (s *Spatial) Process(b *buffer.Buffer) {
	if s.lines == nil || s.Bypassed() || b.NumChannels() == 0 || b.Len() == 0 {
		return
	}

	s.delayMix.PushDry(b)

	for ch := range min(b.NumChannels(), len(s.lines)) {
		line := s.lines[ch]

		d := s.delayR
		if ch == 0 {
			d = s.delayL
		}

		buf := b.Channel(ch)
		for i, in := range buf {
			out := line.ReadFractional(d)
			line.Write(in + out*s.feedback)
			buf[i] = out
		}
	}

	s.delayMix.MixWet(b)

	s.chorusMix.PushDry(b)
	s.chorus.Process(b)
	s.chorusMix.MixWet(b)

	s.reverbMix.PushDry(b)

	if b.NumChannels() >= 2 {
		s.reverb.ProcessStereo(b.Channel(0), b.Channel(1))
	} else {
		s.reverb.ProcessMono(b.Channel(0))
	}

	s.reverbMix.MixWet(b)

	s.width.Process(b)
}

// Reset clears delay, chorus and reverb memory.
func (s *Spatial) Reset() {
	if s.lines == nil {
		return
	}

	for _, line := range s.lines {
		line.Reset()
	}

	s.chorus.Reset()
	s.reverb.Reset()
	s.delayMix.Reset()
	s.chorusMix.Reset()
	s.reverbMix.Reset()
}

func (s *Spatial) update() {
	p := &s.params
	maxD := float64(s.maxDelay) - 1

	s.delayL = core.ClampFinite(core.MsToSamples(p.DelayTimeLeft, s.sampleRate), 1, maxD, 1)
	s.delayR = core.ClampFinite(core.MsToSamples(p.DelayTimeRight, s.sampleRate), 1, maxD, 1)
	s.feedback = core.ClampFinite(p.DelayFeedback, 0, spatialMaxFeedback, 0)

	s.chorus.SetRate(core.ClampFinite(p.ChorusRate, spatialMinChorusRate, spatialMaxChorusRate, spatialMinChorusRate))
	s.chorus.SetDepth(core.ClampFinite(p.ChorusDepth, 0, 1, 0))

	s.reverb.SetRoomSize(p.ReverbSize)
	s.reverb.SetDamping(p.ReverbDamping)
	s.reverb.SetWidth(p.ReverbWidth)

	// Clamped into range, so SetWidth cannot fail.
	_ = s.width.SetWidth(core.ClampFinite(p.StereoWidth, 0, spatialMaxWidth, 1))

	s.delayMix.SetWetMix(p.DelayMix)
	s.chorusMix.SetWetMix(p.ChorusMix)
	s.reverbMix.SetWetMix(p.ReverbMix)
}
