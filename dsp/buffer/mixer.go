package buffer

import (
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Mixer blends a processed block with a captured copy of its input using a
// linear rule: out = dry*(1-wet) + processed*wet.
//
// Typical use: PushDry before an effect, run the effect in place, MixWet
// after it. The dry copy lives in a buffer sized at construction; larger
// blocks grow it once.
type Mixer struct {
	dry *Buffer
	wet float64
}

// NewMixer creates a mixer able to hold channels × maxLen dry samples
// without allocating.
func NewMixer(channels, maxLen int) *Mixer {
	return &Mixer{dry: New(channels, maxLen)}
}

// SetWetMix sets the wet proportion, clamped to [0, 1]. NaN maps to 0.
func (m *Mixer) SetWetMix(wet float64) {
	switch {
	case !(wet > 0):
		m.wet = 0
	case wet > 1:
		m.wet = 1
	default:
		m.wet = wet
	}
}

// WetMix returns the wet proportion.
func (m *Mixer) WetMix() float64 { return m.wet }

// PushDry captures a copy of b as the dry signal.
func (m *Mixer) PushDry(b *Buffer) {
	if m.dry.NumChannels() < b.NumChannels() {
		m.dry = New(b.NumChannels(), b.Len())
	}

	m.dry.CopyFrom(b)
}

// MixWet blends the captured dry signal into b, which holds the wet signal.
// Channels of b without a captured dry counterpart are left as they are.
func (m *Mixer) MixWet(b *Buffer) {
	if m.wet >= 1 {
		return
	}

	n := min(b.Len(), m.dry.Len())
	for ch := range min(b.NumChannels(), m.dry.NumChannels()) {
		wet := b.Channel(ch)[:n]
		dry := m.dry.Channel(ch)[:n]

		if n == 0 {
			continue
		}

		vecmath.ScaleBlock(wet, wet, m.wet)
		vecmath.ScaleBlock(dry, dry, 1-m.wet)
		vecmath.AddBlockInPlace(wet, dry)
	}
}

// Reset clears the captured dry signal.
func (m *Mixer) Reset() {
	m.dry.Zero()
}
