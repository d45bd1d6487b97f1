package resample

import (
	"errors"
	"fmt"
)

// ErrInvalidChannels indicates a non-positive channel count.
var ErrInvalidChannels = errors.New("resample: invalid channel count")

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase int
	KaiserBeta   float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 8, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 32, KaiserBeta: 9.0}
	default:
		return Profile{TapsPerPhase: 16, KaiserBeta: 7.0}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	kaiserBeta   float64
}

// Option configures the oversampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n >= 2 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}

	if c.kaiserBeta <= 0 {
		c.kaiserBeta = p.KaiserBeta
	}

	return c
}

// history is a doubled ring buffer: the newest sample sits at buf[pos] and
// buf[pos:pos+n] is always a contiguous newest-first window.
type history struct {
	buf []float64
	pos int
	n   int
}

func newHistory(n int) history {
	return history{buf: make([]float64, 2*n), n: n}
}

func (h *history) push(x float64) {
	h.pos--
	if h.pos < 0 {
		h.pos = h.n - 1
	}

	h.buf[h.pos] = x
	h.buf[h.pos+h.n] = x
}

func (h *history) window() []float64 {
	return h.buf[h.pos : h.pos+h.n]
}

func (h *history) reset() {
	clear(h.buf)
	h.pos = 0
}

// Oversampler performs streaming 2× up- and downsampling per channel.
type Oversampler struct {
	taps   []float64
	phases [2][]float64

	up   []history
	down []history
}

// NewOversampler creates an oversampler for the given channel count.
func NewOversampler(channels int, opts ...Option) (*Oversampler, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg = cfg.finalized()

	taps, err := designHalfband(cfg.tapsPerPhase, cfg.kaiserBeta)
	if err != nil {
		return nil, err
	}

	o := &Oversampler{taps: taps}

	// Branch p holds 2*taps[p+2k]; the factor 2 restores the energy lost to
	// zero stuffing.
	for p := range 2 {
		phase := make([]float64, cfg.tapsPerPhase)
		for k := range phase {
			if i := p + 2*k; i < len(taps) {
				phase[k] = 2 * taps[i]
			}
		}

		o.phases[p] = phase
	}

	o.up = make([]history, channels)
	o.down = make([]history, channels)

	for ch := range channels {
		o.up[ch] = newHistory(cfg.tapsPerPhase)
		o.down[ch] = newHistory(len(taps))
	}

	return o, nil
}

// NumChannels returns the channel count.
func (o *Oversampler) NumChannels() int {
	return len(o.up)
}

// Latency returns the round-trip delay in base-rate samples.
func (o *Oversampler) Latency() int {
	return (len(o.taps) - 1) / 2
}

// Upsample writes 2*len(src) oversampled values of channel ch into dst and
// returns the number written. dst must hold at least 2*len(src) values.
func (o *Oversampler) Upsample(ch int, src, dst []float64) int {
	h := &o.up[ch]
	p0, p1 := o.phases[0], o.phases[1]

	n := min(len(src), len(dst)/2)
	for i := range n {
		h.push(src[i])
		w := h.window()

		var y0, y1 float64
		for k, x := range w {
			y0 += p0[k] * x
			y1 += p1[k] * x
		}

		dst[2*i] = y0
		dst[2*i+1] = y1
	}

	return 2 * n
}

// Downsample filters the oversampled channel ch in src and writes
// len(src)/2 base-rate values into dst, returning the number written.
func (o *Oversampler) Downsample(ch int, src, dst []float64) int {
	h := &o.down[ch]
	taps := o.taps

	n := min(len(src)/2, len(dst))
	for i := range n {
		h.push(src[2*i])

		var y float64
		for k, x := range h.window() {
			y += taps[k] * x
		}

		dst[i] = y

		h.push(src[2*i+1])
	}

	return n
}

// Reset clears all filter histories.
func (o *Oversampler) Reset() {
	for ch := range o.up {
		o.up[ch].reset()
		o.down[ch].reset()
	}
}
