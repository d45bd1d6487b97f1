package reverb

import (
	"fmt"
	"math"
)

const (
	numCombs     = 8
	numAllpasses = 4

	fixedGain    = 0.015
	scaleWet     = 3.0
	scaleDry     = 2.0
	scaleDamp    = 0.4
	scaleRoom    = 0.28
	offsetRoom   = 0.7
	stereoSpread = 23

	tuningSampleRate = 44100.0
)

// Comb and allpass lengths calibrated for 44.1 kHz.
var (
	combTuning    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTuning = [numAllpasses]int{556, 441, 341, 225}
)

// Reverb is a stereo Schroeder/Freeverb-style reverb: eight damped
// feedback combs in parallel followed by four series allpasses per side,
// with the right side detuned by a fixed spread.
//
// Both sides are fed from the summed input. Width crossfeeds the two tails
// into each output; wet and dry levels scale the tail and the input.
type Reverb struct {
	sampleRate float64

	roomSize float64
	damping  float64
	width    float64
	wetLevel float64
	dryLevel float64

	wet1, wet2, dry float64

	combs   [2][numCombs]comb
	allpass [2][numAllpasses]allpass
}

type allpass struct {
	buffer []float64
	index  int
}

func (a *allpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	a.buffer[a.index] = input + bufOut*0.5

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return bufOut - input
}

type comb struct {
	feedback    float64
	damp1       float64
	damp2       float64
	filterStore float64
	buffer      []float64
	index       int
}

func (c *comb) process(input float64) float64 {
	output := c.buffer[c.index]

	c.filterStore = output*c.damp2 + c.filterStore*c.damp1
	if math.Abs(c.filterStore) < 1e-23 {
		c.filterStore = 0
	}

	c.buffer[c.index] = input + c.filterStore*c.feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

// NewReverb constructs a reverb for the given sample rate with room size
// 0.5, damping 0.5, full width, wet 1/3 and dry 0.
func NewReverb(sampleRate float64) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r := &Reverb{sampleRate: sampleRate}
	scale := sampleRate / tuningSampleRate

	for side := range 2 {
		spread := side * stereoSpread

		for i, n := range combTuning {
			r.combs[side][i].buffer = make([]float64, scaledLength(n+spread, scale))
		}

		for i, n := range allpassTuning {
			r.allpass[side][i].buffer = make([]float64, scaledLength(n+spread, scale))
		}
	}

	r.roomSize, r.damping, r.width = 0.5, 0.5, 1
	r.wetLevel, r.dryLevel = 1.0/scaleWet, 0
	r.update()

	return r, nil
}

func scaledLength(n int, scale float64) int {
	return max(1, int(math.Round(float64(n)*scale)))
}

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// SetRoomSize sets the room size in [0, 1]; larger rooms ring longer.
func (r *Reverb) SetRoomSize(v float64) {
	r.roomSize = clamp01(v)
	r.update()
}

// SetDamping sets high-frequency damping of the tail in [0, 1].
func (r *Reverb) SetDamping(v float64) {
	r.damping = clamp01(v)
	r.update()
}

// SetWidth sets the stereo width of the tail in [0, 1].
func (r *Reverb) SetWidth(v float64) {
	r.width = clamp01(v)
	r.update()
}

// SetWetLevel sets the tail level in [0, 1].
func (r *Reverb) SetWetLevel(v float64) {
	r.wetLevel = clamp01(v)
	r.update()
}

// SetDryLevel sets the direct signal level in [0, 1].
func (r *Reverb) SetDryLevel(v float64) {
	r.dryLevel = clamp01(v)
	r.update()
}

// RoomSize returns the room size.
func (r *Reverb) RoomSize() float64 { return r.roomSize }

// Damping returns the damping amount.
func (r *Reverb) Damping() float64 { return r.damping }

// Width returns the stereo width.
func (r *Reverb) Width() float64 { return r.width }

// WetLevel returns the tail level.
func (r *Reverb) WetLevel() float64 { return r.wetLevel }

// DryLevel returns the direct signal level.
func (r *Reverb) DryLevel() float64 { return r.dryLevel }

func (r *Reverb) update() {
	wet := r.wetLevel * scaleWet
	r.wet1 = 0.5 * wet * (1 + r.width)
	r.wet2 = 0.5 * wet * (1 - r.width)
	r.dry = r.dryLevel * scaleDry

	feedback := r.roomSize*scaleRoom + offsetRoom
	damp := r.damping * scaleDamp

	for side := range 2 {
		for i := range r.combs[side] {
			c := &r.combs[side][i]
			c.feedback = feedback
			c.damp1 = damp
			c.damp2 = 1 - damp
		}
	}
}

// ProcessStereo processes a left/right pair in place. Only the common
// length of left and right is processed.
func (r *Reverb) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))

	for i := range n {
		l, rr := left[i], right[i]
		x := (l + rr) * fixedGain

		var accL, accR float64
		for c := range numCombs {
			accL += r.combs[0][c].process(x)
			accR += r.combs[1][c].process(x)
		}

		for a := range numAllpasses {
			accL = r.allpass[0][a].process(accL)
			accR = r.allpass[1][a].process(accR)
		}

		left[i] = accL*r.wet1 + accR*r.wet2 + l*r.dry
		right[i] = accR*r.wet1 + accL*r.wet2 + rr*r.dry
	}
}

// ProcessMono processes a single channel in place using the left tank.
func (r *Reverb) ProcessMono(buf []float64) {
	for i, in := range buf {
		x := in * fixedGain

		var acc float64
		for c := range numCombs {
			acc += r.combs[0][c].process(x)
		}

		for a := range numAllpasses {
			acc = r.allpass[0][a].process(acc)
		}

		buf[i] = acc*r.wet1 + in*r.dry
	}
}

// Reset clears all delay and filter state.
func (r *Reverb) Reset() {
	for side := range 2 {
		for i := range r.combs[side] {
			clear(r.combs[side][i].buffer)
			r.combs[side][i].index = 0
			r.combs[side][i].filterStore = 0
		}

		for i := range r.allpass[side] {
			clear(r.allpass[side][i].buffer)
			r.allpass[side][i].index = 0
		}
	}
}

func clamp01(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
