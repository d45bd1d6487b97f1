package loudness

import (
	"fmt"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

// Report summarises the loudness of a whole signal.
type Report struct {
	Integrated   float64 // LUFS
	MaxMomentary float64 // LUFS
	MaxShortTerm float64 // LUFS
	PeakDB       float64 // dBFS
}

// String formats the report on one line.
func (r Report) String() string {
	return fmt.Sprintf("I %.1f LUFS, M max %.1f, S max %.1f, peak %.1f dBFS",
		r.Integrated, r.MaxMomentary, r.MaxShortTerm, r.PeakDB)
}

// Measure meters all of b at sampleRate.
func Measure(b *buffer.Buffer, sampleRate float64) Report {
	m := NewMeter(WithSampleRate(sampleRate), WithChannels(max(b.NumChannels(), 1)))
	m.StartIntegration()
	m.ProcessBuffer(b)

	return m.Report()
}

// Report returns the current measurements.
func (m *Meter) Report() Report {
	return Report{
		Integrated:   m.Integrated(),
		MaxMomentary: m.MaxMomentary(),
		MaxShortTerm: m.MaxShortTerm(),
		PeakDB:       m.PeakDB(),
	}
}
