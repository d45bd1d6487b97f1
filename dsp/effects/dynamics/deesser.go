package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
	"github.com/cwbudde/algo-tone/dsp/filter/design"
)

const (
	defaultDeEsserFreqHz   = 5500.0
	defaultDeEsserThreshDB = -20.0
	defaultDeEsserRatio    = 2.0

	minDeEsserFreqHz = 2000.0
	maxDeEsserFreqHz = 16000.0

	deEsserBandwidth = 1.414
	deEsserShelfQ    = 0.707
	deEsserRMSFloor  = 1e-8
	deEsserMinGain   = 0.1
	deEsserSmoothOld = 0.8
)

// DeEsser reduces sibilance with a block-rate detector and a high-shelf
// cut applied to every channel.
//
// Per block the channels are averaged to mono and band-limited by a
// high-pass at f/1.414 followed by a low-pass at f·1.414. The band RMS in dB
// is compared with the threshold; the overage times (ratio-1) is the target
// cut. The linear cut is smoothed as g = 0.8·g + 0.2·target and drives a
// high shelf at f (Q 0.707, gain limited to [0.1, 1]).
//
// Detection runs on the mono sum while the correction filters the original
// channels.
type DeEsser struct {
	sampleRate  float64
	freqHz      float64
	thresholdDB float64
	ratio       float64

	hp, lp biquad.Section
	shelf  *biquad.Bank

	gain    float64
	scratch []float64
}

// NewDeEsser creates a de-esser for the given sample rate and channel
// count, centred at 5.5 kHz with a -20 dB threshold and 2:1 ratio.
func NewDeEsser(sampleRate float64, channels int) (*DeEsser, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("de-esser sample rate must be positive and finite: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("de-esser channels must be > 0: %d", channels)
	}

	d := &DeEsser{
		sampleRate:  sampleRate,
		thresholdDB: defaultDeEsserThreshDB,
		ratio:       defaultDeEsserRatio,
		shelf:       biquad.NewBank(channels),
		gain:        1,
	}

	d.SetFrequency(defaultDeEsserFreqHz)

	return d, nil
}

// SetFrequency sets the detection and shelf frequency, clamped to
// [2000, 16000] Hz and below Nyquist.
func (d *DeEsser) SetFrequency(hz float64) {
	if math.IsNaN(hz) {
		hz = defaultDeEsserFreqHz
	}

	hz = min(max(hz, minDeEsserFreqHz), maxDeEsserFreqHz)
	if d.freqHz == hz {
		return
	}

	d.freqHz = hz

	// Band edges must stay below Nyquist at low sample rates.
	hpHz := min(hz/deEsserBandwidth, 0.45*d.sampleRate)
	lpHz := min(hz*deEsserBandwidth, 0.49*d.sampleRate)

	d.hp.Coefficients = design.Highpass(hpHz, design.Butterworth, d.sampleRate)
	d.lp.Coefficients = design.Lowpass(lpHz, design.Butterworth, d.sampleRate)
	d.updateShelf()
}

// SetThreshold sets the detector threshold in dB.
func (d *DeEsser) SetThreshold(dB float64) {
	if !math.IsNaN(dB) {
		d.thresholdDB = dB
	}
}

// SetRatio sets how many dB of cut each dB of overage produces, plus one.
func (d *DeEsser) SetRatio(ratio float64) {
	if !math.IsNaN(ratio) {
		d.ratio = ratio
	}
}

// Frequency returns the centre frequency in Hz.
func (d *DeEsser) Frequency() float64 { return d.freqHz }

// Threshold returns the threshold in dB.
func (d *DeEsser) Threshold() float64 { return d.thresholdDB }

// Ratio returns the ratio.
func (d *DeEsser) Ratio() float64 { return d.ratio }

// Gain returns the smoothed linear cut currently applied by the shelf.
func (d *DeEsser) Gain() float64 { return d.gain }

// Process detects sibilance in b and applies the shelf cut in place.
//
// The mono scratch buffer grows the first time a longer block arrives and
// is reused afterwards.
func (d *DeEsser) Process(b *buffer.Buffer) {
	nch, n := b.NumChannels(), b.Len()
	if nch == 0 || n == 0 {
		return
	}

	if cap(d.scratch) < n {
		d.scratch = make([]float64, n)
	}

	mono := d.scratch[:n]
	clear(mono)

	for ch := range nch {
		for i, x := range b.Channel(ch) {
			mono[i] += x
		}
	}

	inv := 1 / float64(nch)
	for i := range mono {
		mono[i] *= inv
	}

	d.hp.ProcessBlock(mono)
	d.lp.ProcessBlock(mono)

	var acc float64
	for _, x := range mono {
		acc += x * x
	}

	rmsDB := GainToDB(mathSqrt(acc/float64(n)), deEsserRMSFloor)

	cutDB := 0.0
	if over := rmsDB - d.thresholdDB; over > 0 {
		cutDB = over * (d.ratio - 1)
	}

	target := DBToGain(-cutDB)
	d.gain = d.gain*deEsserSmoothOld + target*(1-deEsserSmoothOld)

	d.updateShelf()

	for ch := range min(nch, d.shelf.NumChannels()) {
		d.shelf.ProcessChannel(ch, b.Channel(ch))
	}
}

// Reset clears filter state and releases the cut.
func (d *DeEsser) Reset() {
	d.hp.Reset()
	d.lp.Reset()
	d.shelf.Reset()

	d.gain = 1
	d.updateShelf()
}

func (d *DeEsser) updateShelf() {
	g := d.gain
	if math.IsNaN(g) {
		g = 1
	}

	g = min(max(g, deEsserMinGain), 1)
	hz := min(d.freqHz, 0.45*d.sampleRate)
	d.shelf.SetCoefficients(design.HighShelfGain(hz, g, deEsserShelfQ, d.sampleRate))
}
