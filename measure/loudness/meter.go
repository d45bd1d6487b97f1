package loudness

import (
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
	"github.com/cwbudde/algo-tone/dsp/filter/design"
)

const (
	// K-weighting: high shelf then highpass.
	kShelfFreq   = 1500.0
	kShelfGainDB = 4.0
	kHighpass    = 38.0

	momentarySeconds = 0.4
	shortTermSeconds = 3.0

	absoluteGateLUFS = -70.0
	relativeGateLU   = -10.0
	gateStepSeconds  = momentarySeconds / 4 // 75% overlap

	// Floor reported for silence.
	FloorLUFS = -120.0
)

// window is a sliding mean-square integrator over a fixed number of
// samples.
type window struct {
	hist []float64
	pos  int
	sum  float64
}

func newWindow(n int) window { return window{hist: make([]float64, max(n, 1))} }

func (w *window) push(sq float64) {
	w.sum += sq - w.hist[w.pos]
	if w.sum < 0 {
		w.sum = 0
	}

	w.hist[w.pos] = sq

	w.pos++
	if w.pos == len(w.hist) {
		w.pos = 0
	}
}

func (w *window) meanSquare() float64 { return w.sum / float64(len(w.hist)) }

func (w *window) reset() {
	clear(w.hist)
	w.pos = 0
	w.sum = 0
}

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering.
type Meter struct {
	cfg MeterConfig

	shelf *biquad.Bank
	hp    *biquad.Bank

	mom   []window
	short []window
	peak  []float64

	integrating  bool
	gateStep     int
	sinceStep    int
	blocks       []float64 // summed channel mean squares per gating block
	maxMomentary float64
	maxShortTerm float64

	scratch  []float64
	weighted [][]float64
}

// NewMeter returns a meter configured by opts.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)
	fs := cfg.SampleRate

	m := &Meter{
		cfg:      cfg,
		shelf:    biquad.NewBank(cfg.Channels),
		hp:       biquad.NewBank(cfg.Channels),
		mom:      make([]window, cfg.Channels),
		short:    make([]window, cfg.Channels),
		peak:     make([]float64, cfg.Channels),
		weighted: make([][]float64, cfg.Channels),
		gateStep: max(int(math.Round(gateStepSeconds*fs)), 1),
	}

	m.shelf.SetCoefficients(design.HighShelf(kShelfFreq, kShelfGainDB, design.Butterworth, fs))
	m.hp.SetCoefficients(design.Highpass(kHighpass, design.Butterworth, fs))

	for ch := range cfg.Channels {
		m.mom[ch] = newWindow(int(math.Round(momentarySeconds * fs)))
		m.short[ch] = newWindow(int(math.Round(shortTermSeconds * fs)))
	}

	m.Reset()

	return m
}

// Config returns the meter configuration.
func (m *Meter) Config() MeterConfig { return m.cfg }

// Reset clears filters, windows, peaks and gating blocks.
func (m *Meter) Reset() {
	m.shelf.Reset()
	m.hp.Reset()

	for ch := range m.cfg.Channels {
		m.mom[ch].reset()
		m.short[ch].reset()
		m.peak[ch] = 0
	}

	m.sinceStep = 0
	m.blocks = m.blocks[:0]
	m.maxMomentary = math.Inf(-1)
	m.maxShortTerm = math.Inf(-1)
}

// StartIntegration starts collecting gating blocks and loudness maxima.
func (m *Meter) StartIntegration() { m.integrating = true }

// StopIntegration pauses collection; the collected blocks are kept.
func (m *Meter) StopIntegration() { m.integrating = false }

// ProcessSample measures one frame holding one value per channel. Short
// frames are ignored.
func (m *Meter) ProcessSample(frame []float64) {
	if len(frame) < m.cfg.Channels {
		return
	}

	for ch := range m.cfg.Channels {
		x := frame[ch]
		m.trackPeak(ch, x)

		y := m.hp.Section(ch).ProcessSample(m.shelf.Section(ch).ProcessSample(x))
		m.mom[ch].push(y * y)
		m.short[ch].push(y * y)
	}

	m.advance()
}

// ProcessInterleaved measures interleaved frames.
func (m *Meter) ProcessInterleaved(samples []float64) {
	nch := m.cfg.Channels
	for i := 0; i+nch <= len(samples); i += nch {
		m.ProcessSample(samples[i : i+nch])
	}
}

// ProcessBuffer measures a planar buffer. Channels beyond the configured
// count are ignored; missing channels count as silence.
func (m *Meter) ProcessBuffer(b *buffer.Buffer) {
	n := b.Len()
	if len(m.scratch) < n*m.cfg.Channels {
		m.scratch = make([]float64, n*m.cfg.Channels)
	}

	// K-weight whole channels first, then walk the frames.
	weighted := m.weighted
	for ch := range m.cfg.Channels {
		w := m.scratch[ch*n : (ch+1)*n]
		if ch < b.NumChannels() {
			copy(w, b.Channel(ch))
		} else {
			clear(w)
		}

		for _, x := range w {
			m.trackPeak(ch, x)
		}

		m.shelf.ProcessChannel(ch, w)
		m.hp.ProcessChannel(ch, w)
		weighted[ch] = w
	}

	for i := range n {
		for ch, w := range weighted {
			m.mom[ch].push(w[i] * w[i])
			m.short[ch].push(w[i] * w[i])
		}

		m.advance()
	}
}

func (m *Meter) trackPeak(ch int, x float64) {
	if a := math.Abs(x); a > m.peak[ch] {
		m.peak[ch] = a
	}
}

func (m *Meter) advance() {
	if !m.integrating {
		return
	}

	m.sinceStep++
	if m.sinceStep < m.gateStep {
		return
	}

	m.sinceStep = 0
	m.blocks = append(m.blocks, m.sum(m.mom))
	m.maxMomentary = max(m.maxMomentary, toLUFS(m.sum(m.mom)))
	m.maxShortTerm = max(m.maxShortTerm, toLUFS(m.sum(m.short)))
}

func (m *Meter) sum(ws []window) float64 {
	var s float64
	for ch := range ws {
		s += ws[ch].meanSquare()
	}

	return s
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 { return toLUFS(m.sum(m.mom)) }

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 { return toLUFS(m.sum(m.short)) }

// MaxMomentary returns the highest momentary loudness seen while
// integrating, or -Inf before the first gating block.
func (m *Meter) MaxMomentary() float64 { return m.maxMomentary }

// MaxShortTerm returns the highest short-term loudness seen while
// integrating, or -Inf before the first gating block.
func (m *Meter) MaxShortTerm() float64 { return m.maxShortTerm }

// Integrated returns the gated integrated loudness in LUFS, or -Inf when
// no block passes the gates.
func (m *Meter) Integrated() float64 {
	mean, n := gatedMean(m.blocks, absoluteGateLUFS)
	if n == 0 {
		return math.Inf(-1)
	}

	mean, n = gatedMean(m.blocks, max(absoluteGateLUFS, toLUFS(mean)+relativeGateLU))
	if n == 0 {
		return math.Inf(-1)
	}

	return toLUFS(mean)
}

// gatedMean averages the blocks louder than gate.
func gatedMean(blocks []float64, gate float64) (float64, int) {
	var (
		sum float64
		n   int
	)

	for _, b := range blocks {
		if toLUFS(b) > gate {
			sum += b
			n++
		}
	}

	if n == 0 {
		return 0, 0
	}

	return sum / float64(n), n
}

// Peaks returns the largest absolute sample per channel since Reset.
func (m *Meter) Peaks() []float64 {
	return append([]float64(nil), m.peak...)
}

// PeakDB returns the largest sample peak across channels in dBFS.
func (m *Meter) PeakDB() float64 {
	var p float64
	for _, v := range m.peak {
		p = max(p, v)
	}

	if p == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(p)
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return FloorLUFS
	}

	return -0.691 + 10*math.Log10(meanSquare)
}
