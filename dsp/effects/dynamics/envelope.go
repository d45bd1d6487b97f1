package dynamics

import (
	"fmt"
	"math"
)

// EnvelopeFollower tracks |x| with separate attack and release one-pole
// smoothers. Coefficients follow exp(-1/(t·fs)).
type EnvelopeFollower struct {
	attackCoeff  float64
	releaseCoeff float64
	env          float64
}

// NewEnvelopeFollower creates a follower with the given attack and release
// times in seconds.
func NewEnvelopeFollower(sampleRate, attackSec, releaseSec float64) (*EnvelopeFollower, error) {
	e := &EnvelopeFollower{}
	if err := e.Configure(sampleRate, attackSec, releaseSec); err != nil {
		return nil, err
	}

	return e, nil
}

// Configure updates the time constants without touching the envelope.
func (e *EnvelopeFollower) Configure(sampleRate, attackSec, releaseSec float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("envelope sample rate must be positive and finite: %f", sampleRate)
	}

	if !(attackSec > 0) || !(releaseSec > 0) {
		return fmt.Errorf("envelope times must be > 0: attack=%f release=%f", attackSec, releaseSec)
	}

	e.attackCoeff = math.Exp(-1 / (attackSec * sampleRate))
	e.releaseCoeff = math.Exp(-1 / (releaseSec * sampleRate))

	return nil
}

// Next feeds one rectified sample and returns the new envelope.
func (e *EnvelopeFollower) Next(x float64) float64 {
	c := e.releaseCoeff
	if x > e.env {
		c = e.attackCoeff
	}

	e.env = c*e.env + (1-c)*x

	return e.env
}

// Value returns the current envelope.
func (e *EnvelopeFollower) Value() float64 { return e.env }

// Reset sets the envelope to zero.
func (e *EnvelopeFollower) Reset() { e.env = 0 }
