package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/delay"
)

const (
	defaultLimiterCeilingDB   = -0.3
	defaultLimiterReleaseMs   = 80.0
	defaultLimiterLookaheadMs = 3.0

	minLimiterCeilingDB   = -24.0
	maxLimiterCeilingDB   = 0.0
	maxLimiterLookaheadMs = 20.0
)

// Limiter is a near-brickwall output limiter: a 100:1 compressor with a
// 0.1 ms attack whose detector runs ahead of a delayed program path. The
// detector sees the maximum over the whole lookahead window, so a peak is
// fully attenuated by the time it leaves the delay. Detection is linked
// across channels.
//
// The lookahead is fixed at construction because it sizes the delay
// lines; it is also the limiter's latency.
type Limiter struct {
	comp *Compressor

	ceilingDB float64
	releaseMs float64
	lookahead int

	lines []*delay.Line
	hold  windowMax
}

// NewLimiter creates a limiter for the given channel count with a -0.3 dB
// ceiling, 80 ms release and 3 ms lookahead.
func NewLimiter(sampleRate float64, channels int) (*Limiter, error) {
	return NewLimiterLookahead(sampleRate, channels, defaultLimiterLookaheadMs)
}

// NewLimiterLookahead is NewLimiter with an explicit lookahead in
// milliseconds, in [0, 20].
func NewLimiterLookahead(sampleRate float64, channels int, lookaheadMs float64) (*Limiter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("limiter channels must be > 0: %d", channels)
	}

	if !(lookaheadMs >= 0 && lookaheadMs <= maxLimiterLookaheadMs) {
		return nil, fmt.Errorf("limiter lookahead must be in [0, %g] ms: %f", maxLimiterLookaheadMs, lookaheadMs)
	}

	c, err := NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("limiter: %w", err)
	}

	c.SetRatio(100)
	c.SetAttack(minCompressorAttackMs)

	l := &Limiter{
		comp:      c,
		lookahead: int(math.Round(lookaheadMs * sampleRate / 1000)),
	}
	l.hold = newWindowMax(l.lookahead + 1)

	if l.lookahead > 0 {
		l.lines = make([]*delay.Line, channels)
		for ch := range l.lines {
			l.lines[ch], err = delay.New(l.lookahead)
			if err != nil {
				return nil, fmt.Errorf("limiter: %w", err)
			}
		}
	}

	l.SetCeiling(defaultLimiterCeilingDB)
	l.SetRelease(defaultLimiterReleaseMs)

	return l, nil
}

// SetCeiling sets the output ceiling in dBFS, clamped to [-24, 0]. NaN is
// ignored.
func (l *Limiter) SetCeiling(dB float64) {
	if math.IsNaN(dB) {
		return
	}

	l.ceilingDB = min(max(dB, minLimiterCeilingDB), maxLimiterCeilingDB)
	l.comp.SetThreshold(l.ceilingDB)
}

// SetRelease sets the release time in milliseconds.
func (l *Limiter) SetRelease(ms float64) {
	l.comp.SetRelease(ms)
	l.releaseMs = l.comp.Release()
}

// Ceiling returns the ceiling in dBFS.
func (l *Limiter) Ceiling() float64 { return l.ceilingDB }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// Latency returns the lookahead in samples.
func (l *Limiter) Latency() int { return l.lookahead }

// Process limits b in place. Channels beyond the count given at
// construction pass through undelayed and ungained.
func (l *Limiter) Process(b *buffer.Buffer) {
	nch := b.NumChannels()
	if l.lookahead > 0 {
		nch = min(nch, len(l.lines))
	}

	for i := range b.Len() {
		level := 0.0
		for ch := range nch {
			level = max(level, math.Abs(b.Channel(ch)[i]))
		}

		g := l.comp.track(l.hold.push(level))

		for ch := range nch {
			x := b.Channel(ch)[i]
			if l.lookahead > 0 {
				line := l.lines[ch]
				delayed := line.Read(l.lookahead)
				line.Write(x)
				x = delayed
			}

			b.Channel(ch)[i] = x * g
		}
	}
}

// Reset clears the detector and the delay lines.
func (l *Limiter) Reset() {
	l.comp.Reset()
	l.hold.reset()

	for _, line := range l.lines {
		line.Reset()
	}
}

// windowMax is a sliding maximum over the last size values, kept as a
// monotonic queue in a ring.
type windowMax struct {
	vals []float64
	idxs []int
	head int
	n    int
	t    int
}

func newWindowMax(size int) windowMax {
	return windowMax{vals: make([]float64, size), idxs: make([]int, size)}
}

// push adds v and returns the maximum of the window ending at v.
func (w *windowMax) push(v float64) float64 {
	size := len(w.vals)

	for w.n > 0 && w.idxs[w.head] <= w.t-size {
		w.head = (w.head + 1) % size
		w.n--
	}

	for w.n > 0 && w.vals[(w.head+w.n-1)%size] <= v {
		w.n--
	}

	slot := (w.head + w.n) % size
	w.vals[slot] = v
	w.idxs[slot] = w.t
	w.n++
	w.t++

	return w.vals[w.head]
}

func (w *windowMax) reset() {
	w.head, w.n, w.t = 0, 0, 0
}
