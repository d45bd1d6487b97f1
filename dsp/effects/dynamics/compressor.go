package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

const (
	defaultCompressorThresholdDB = -18.0
	defaultCompressorRatio       = 2.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 120.0

	minCompressorRatio     = 1.0
	minCompressorAttackMs  = 0.1
	minCompressorReleaseMs = 1.0
)

// Compressor is a feed-forward hard-knee compressor.
//
// A peak ballistics filter tracks |x| with separate attack and release
// constants; above the threshold the gain in dB is
//
//	gainDB = (1/ratio - 1) * (levelDB - thresholdDB)
//
// Process detects on the loudest channel at every sample and applies one
// gain to all channels, so the stereo image does not shift under
// compression.
//
// This implementation is single-threaded and not thread-safe.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	sampleRate  float64

	thresholdLog2 float64
	slope         float64 // 1/ratio - 1, <= 0
	attackCoeff   float64
	releaseCoeff  float64

	envelope float64
}

// NewCompressor creates a compressor with a -18 dB threshold, 2:1 ratio,
// 10 ms attack and 120 ms release.
//
// Sample rate must be positive and finite.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Compressor{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
		sampleRate:  sampleRate,
	}

	c.updateGainComputer()
	c.updateTimeConstants()

	return c, nil
}

// SetThreshold sets the threshold in dB. Non-finite values are ignored.
func (c *Compressor) SetThreshold(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}

	c.thresholdDB = dB
	c.updateGainComputer()
}

// SetRatio sets the compression ratio; values below 1 are raised to 1.
func (c *Compressor) SetRatio(ratio float64) {
	if math.IsNaN(ratio) {
		ratio = minCompressorRatio
	}

	c.ratio = max(ratio, minCompressorRatio)
	c.updateGainComputer()
}

// SetAttack sets the attack time in milliseconds, at least 0.1 ms.
func (c *Compressor) SetAttack(ms float64) {
	if math.IsNaN(ms) {
		ms = defaultCompressorAttackMs
	}

	c.attackMs = max(ms, minCompressorAttackMs)
	c.updateTimeConstants()
}

// SetRelease sets the release time in milliseconds, at least 1 ms.
func (c *Compressor) SetRelease(ms float64) {
	if math.IsNaN(ms) {
		ms = defaultCompressorReleaseMs
	}

	c.releaseMs = max(ms, minCompressorReleaseMs)
	c.updateTimeConstants()
}

// Threshold returns the current threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Attack returns the current attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the current release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// SampleRate returns the current sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// Envelope returns the current detector level (linear).
func (c *Compressor) Envelope() float64 { return c.envelope }

// ProcessSample compresses one mono sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	return input * c.track(math.Abs(input))
}

// Process compresses every channel of b in place with linked detection.
func (c *Compressor) Process(b *buffer.Buffer) {
	nch := b.NumChannels()
	if nch == 0 {
		return
	}

	if nch == 1 {
		ch := b.Channel(0)
		for i, x := range ch {
			ch[i] = x * c.track(math.Abs(x))
		}

		return
	}

	for i := range b.Len() {
		level := 0.0
		for ch := range nch {
			level = max(level, math.Abs(b.Channel(ch)[i]))
		}

		g := c.track(level)
		for ch := range nch {
			b.Channel(ch)[i] *= g
		}
	}
}

// GainFor returns the static gain the compressor applies at a steady
// detector level.
func (c *Compressor) GainFor(level float64) float64 {
	return c.gain(math.Abs(level))
}

// Reset clears the detector.
func (c *Compressor) Reset() {
	c.envelope = 0
}

func (c *Compressor) track(level float64) float64 {
	coeff := c.releaseCoeff
	if level > c.envelope {
		coeff = c.attackCoeff
	}

	c.envelope = level + coeff*(c.envelope-level)
	if c.envelope < 1e-30 {
		c.envelope = 0
	}

	return c.gain(c.envelope)
}

func (c *Compressor) gain(level float64) float64 {
	if level <= 0 {
		return 1
	}

	overshoot := mathLog2(level) - c.thresholdLog2
	if overshoot <= 0 {
		return 1
	}

	return mathPower2(overshoot * c.slope)
}

func (c *Compressor) updateGainComputer() {
	c.thresholdLog2 = c.thresholdDB * log2Of10Div20
	c.slope = 1/c.ratio - 1
}

// updateTimeConstants derives the one-pole ballistics coefficients
// exp(-2π·1000 / (ms·fs)).
func (c *Compressor) updateTimeConstants() {
	c.attackCoeff = ballisticsCoeff(c.attackMs, c.sampleRate)
	c.releaseCoeff = ballisticsCoeff(c.releaseMs, c.sampleRate)
}

func ballisticsCoeff(ms, sampleRate float64) float64 {
	if ms < 1e-3 {
		return 0
	}

	return math.Exp(-2 * math.Pi * 1000 / (ms * sampleRate))
}
