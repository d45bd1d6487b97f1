package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/delay"
)

const (
	defaultChorusRateHz        = 1.0
	defaultChorusDepth         = 0.25
	defaultChorusCentreDelayMs = 7.0
	defaultChorusMix           = 0.5

	maxChorusCentreDelayMs = 100.0
	chorusModulationMs     = 20.0
	minChorusDelayMs       = 1.0
)

// Chorus is a single-voice modulated-delay chorus with one delay line per
// channel and a shared sine LFO.
//
// Delay time in milliseconds follows:
//
//	d(t) = max(1, centre + 20 * depth * 0.5 * sin(phase))
//
// so a depth of 1 swings the delay ±10 ms around the centre.
type Chorus struct {
	sampleRate    float64
	rateHz        float64
	depth         float64
	centreDelayMs float64
	feedback      float64
	mix           float64

	phase float64
	lines []*delay.Line
}

// NewChorus creates a chorus for the given sample rate and channel count.
func NewChorus(sampleRate float64, channels int) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("chorus channels must be > 0: %d", channels)
	}

	size := int(math.Ceil((maxChorusCentreDelayMs+chorusModulationMs)*sampleRate/1000)) + 4

	c := &Chorus{
		sampleRate:    sampleRate,
		rateHz:        defaultChorusRateHz,
		depth:         defaultChorusDepth,
		centreDelayMs: defaultChorusCentreDelayMs,
		mix:           defaultChorusMix,
		lines:         make([]*delay.Line, channels),
	}

	for ch := range c.lines {
		line, err := delay.New(size)
		if err != nil {
			return nil, err
		}

		c.lines[ch] = line
	}

	return c, nil
}

// SetRate sets the LFO rate in Hz, clamped to [0.01, 20].
func (c *Chorus) SetRate(hz float64) {
	c.rateHz = clampFinite(hz, 0.01, 20, defaultChorusRateHz)
}

// SetDepth sets the modulation depth in [0, 1].
func (c *Chorus) SetDepth(depth float64) {
	c.depth = clampFinite(depth, 0, 1, 0)
}

// SetCentreDelay sets the centre delay in milliseconds, clamped to [1, 100].
func (c *Chorus) SetCentreDelay(ms float64) {
	c.centreDelayMs = clampFinite(ms, minChorusDelayMs, maxChorusCentreDelayMs, defaultChorusCentreDelayMs)
}

// SetFeedback sets the delay feedback in [-0.95, 0.95].
func (c *Chorus) SetFeedback(fb float64) {
	c.feedback = clampFinite(fb, -0.95, 0.95, 0)
}

// SetMix sets the wet proportion in [0, 1].
func (c *Chorus) SetMix(mix float64) {
	c.mix = clampFinite(mix, 0, 1, 0)
}

// Rate returns the LFO rate in Hz.
func (c *Chorus) Rate() float64 { return c.rateHz }

// Depth returns the modulation depth.
func (c *Chorus) Depth() float64 { return c.depth }

// CentreDelay returns the centre delay in milliseconds.
func (c *Chorus) CentreDelay() float64 { return c.centreDelayMs }

// Feedback returns the feedback amount.
func (c *Chorus) Feedback() float64 { return c.feedback }

// Mix returns the wet proportion.
func (c *Chorus) Mix() float64 { return c.mix }

// NumChannels returns the number of per-channel delay lines.
func (c *Chorus) NumChannels() int { return len(c.lines) }

// Process applies the chorus to b in place. Every channel sees the same
// LFO trajectory; channels beyond the chorus width pass through.
func (c *Chorus) Process(b *buffer.Buffer) {
	inc := 2 * math.Pi * c.rateHz / c.sampleRate
	swing := chorusModulationMs * c.depth * 0.5
	msToSamples := c.sampleRate / 1000
	start := c.phase

	nch := min(b.NumChannels(), len(c.lines))
	for ch := range nch {
		line := c.lines[ch]
		phase := start

		buf := b.Channel(ch)
		for i, in := range buf {
			ms := max(minChorusDelayMs, c.centreDelayMs+swing*math.Sin(phase))

			out := line.ReadFractional(ms * msToSamples)
			line.Write(in + out*c.feedback)
			buf[i] = in*(1-c.mix) + out*c.mix

			phase += inc
			if phase >= 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
	}

	c.phase = math.Mod(start+inc*float64(b.Len()), 2*math.Pi)
}

// Reset clears delay state and modulation phase.
func (c *Chorus) Reset() {
	for _, line := range c.lines {
		line.Reset()
	}

	c.phase = 0
}

func clampFinite(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}

	return min(max(v, lo), hi)
}
