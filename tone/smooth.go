package tone

import "math"

// Smoother ramps a value linearly toward a target over a fixed number of
// samples. A new target restarts the ramp from the current value.
type Smoother struct {
	current float64
	target  float64
	step    float64
	left    int
	length  int
}

// NewSmoother returns a smoother whose ramps last seconds at sampleRate.
func NewSmoother(sampleRate, seconds float64) *Smoother {
	s := &Smoother{}
	s.Reset(sampleRate, seconds)

	return s
}

// Reset sets the ramp length and stops any ramp in progress.
func (s *Smoother) Reset(sampleRate, seconds float64) {
	s.length = max(int(sampleRate*seconds), 0)
	s.current = s.target
	s.left = 0
	s.step = 0
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *Smoother) SetCurrentAndTarget(v float64) {
	s.current, s.target = v, v
	s.left = 0
	s.step = 0
}

// SetTarget starts a ramp toward v. Setting the active target again does
// not restart the ramp.
func (s *Smoother) SetTarget(v float64) {
	if v == s.target {
		return
	}

	s.target = v

	if s.length == 0 || math.IsNaN(v) || math.IsNaN(s.current) {
		s.SetCurrentAndTarget(v)
		return
	}

	s.left = s.length
	s.step = (v - s.current) / float64(s.length)
}

// Next advances one sample and returns the new value.
func (s *Smoother) Next() float64 {
	return s.Skip(1)
}

// Skip advances n samples and returns the value reached.
func (s *Smoother) Skip(n int) float64 {
	if s.left == 0 || n <= 0 {
		return s.current
	}

	if n >= s.left {
		s.current = s.target
		s.left = 0

		return s.current
	}

	s.current += s.step * float64(n)
	s.left -= n

	return s.current
}

// Current returns the value reached so far.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *Smoother) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *Smoother) IsSmoothing() bool { return s.left > 0 }
