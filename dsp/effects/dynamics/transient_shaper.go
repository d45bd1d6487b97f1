package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

const (
	fastAttackSec  = 0.002
	fastReleaseSec = 0.020
	slowAttackSec  = 0.020
	slowReleaseSec = 0.200

	minTransientGain = 0.25
	maxTransientGain = 4.0
)

// TransientShaper emphasizes or attenuates attacks and sustain using the
// difference between a fast (2/20 ms) and a slow (20/200 ms) envelope.
//
// Per sample:
//
//	transient = clamp(fast - slow, -1, 1)
//	gain      = clamp((1 + attack·transient·2)·(1 + sustain·slow·0.5), 0.25, 4)
//
// The envelopes follow channel 0 only and the gain is applied to every
// channel.
type TransientShaper struct {
	attackAmount  float64
	sustainAmount float64
	sampleRate    float64

	fast EnvelopeFollower
	slow EnvelopeFollower
}

// NewTransientShaper creates a transient shaper with zero attack and
// sustain amounts.
func NewTransientShaper(sampleRate float64) (*TransientShaper, error) {
	t := &TransientShaper{sampleRate: sampleRate}

	if err := t.fast.Configure(sampleRate, fastAttackSec, fastReleaseSec); err != nil {
		return nil, fmt.Errorf("transient shaper: %w", err)
	}

	if err := t.slow.Configure(sampleRate, slowAttackSec, slowReleaseSec); err != nil {
		return nil, fmt.Errorf("transient shaper: %w", err)
	}

	return t, nil
}

// SetAttackAmount sets the attack emphasis in [-1, 1].
func (t *TransientShaper) SetAttackAmount(amount float64) {
	t.attackAmount = clampAmount(amount)
}

// SetSustainAmount sets the sustain emphasis in [-1, 1].
func (t *TransientShaper) SetSustainAmount(amount float64) {
	t.sustainAmount = clampAmount(amount)
}

// AttackAmount returns the attack emphasis.
func (t *TransientShaper) AttackAmount() float64 { return t.attackAmount }

// SustainAmount returns the sustain emphasis.
func (t *TransientShaper) SustainAmount() float64 { return t.sustainAmount }

// SampleRate returns the sample rate in Hz.
func (t *TransientShaper) SampleRate() float64 { return t.sampleRate }

// Envelopes returns the current fast and slow envelope values.
func (t *TransientShaper) Envelopes() (fast, slow float64) {
	return t.fast.Value(), t.slow.Value()
}

// ProcessSample shapes one mono sample.
func (t *TransientShaper) ProcessSample(input float64) float64 {
	return input * t.next(math.Abs(input))
}

// Process shapes b in place, detecting on channel 0.
func (t *TransientShaper) Process(b *buffer.Buffer) {
	nch := b.NumChannels()
	if nch == 0 {
		return
	}

	ch0 := b.Channel(0)
	for i := range ch0 {
		g := t.next(math.Abs(ch0[i]))

		for ch := range nch {
			b.Channel(ch)[i] *= g
		}
	}
}

// Reset clears both envelopes.
func (t *TransientShaper) Reset() {
	t.fast.Reset()
	t.slow.Reset()
}

func (t *TransientShaper) next(x float64) float64 {
	fast := t.fast.Next(x)
	slow := t.slow.Next(x)

	transient := min(max(fast-slow, -1), 1)

	g := (1 + t.attackAmount*transient*2) * (1 + t.sustainAmount*slow*0.5)

	return min(max(g, minTransientGain), maxTransientGain)
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return min(max(v, -1), 1)
}
