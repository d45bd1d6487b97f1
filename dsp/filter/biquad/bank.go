package biquad

// Bank runs one Section per channel with a shared coefficient set.
// Updating coefficients keeps every channel's delay-line state, so a
// parameter change does not restart the filters.
type Bank struct {
	coeffs   Coefficients
	sections []Section
}

// NewBank creates a bank for the given channel count with pass-through
// coefficients.
func NewBank(channels int) *Bank {
	if channels < 0 {
		channels = 0
	}

	b := &Bank{sections: make([]Section, channels)}
	b.SetCoefficients(Identity())

	return b
}

// NumChannels returns the number of per-channel sections.
func (b *Bank) NumChannels() int {
	return len(b.sections)
}

// Coefficients returns the shared coefficient set.
func (b *Bank) Coefficients() Coefficients {
	return b.coeffs
}

// SetCoefficients replaces the coefficients of every channel section.
func (b *Bank) SetCoefficients(c Coefficients) {
	b.coeffs = c
	for i := range b.sections {
		b.sections[i].Coefficients = c
	}
}

// ProcessChannel filters buf in place using the section for channel ch.
// Channels beyond the bank width are left untouched.
func (b *Bank) ProcessChannel(ch int, buf []float64) {
	if ch < 0 || ch >= len(b.sections) {
		return
	}

	b.sections[ch].ProcessBlock(buf)
}

// Section returns the section for channel ch.
func (b *Bank) Section(ch int) *Section {
	return &b.sections[ch]
}

// Reset clears every channel's state.
func (b *Bank) Reset() {
	for i := range b.sections {
		b.sections[i].Reset()
	}
}
