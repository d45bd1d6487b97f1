// Package spectrum provides offline FFT analysis of rendered audio:
// Welch-averaged magnitude spectra, band energies and spectral centroid.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrFrameSize reports a frame size that is not a power of two >= 16.
var ErrFrameSize = errors.New("spectrum: frame size must be a power of two >= 16")

// Analyzer computes Hann-windowed magnitude spectra of fixed-size frames.
// It is not safe for concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64

	plan   *algofft.Plan[complex128]
	window []float64
	norm   float64 // 2 / sum(window): a full-scale sine bin reads 1

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	power []float64
}

// NewAnalyzer prepares an analyzer for frames of size samples.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 16 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameSize, size)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: invalid sample rate %v", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	bins := size/2 + 1
	a := &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		window:     hann(size),
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		power:      make([]float64, bins),
	}

	var sum float64
	for _, w := range a.window {
		sum += w
	}

	a.norm = 2 / sum

	return a, nil
}

// periodic Hann window.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of non-negative frequency bins, Size/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.size)
}

// Power writes the normalised power spectrum of frame into dst, which
// must hold Bins values. A frame shorter than Size is zero-padded.
func (a *Analyzer) Power(dst, frame []float64) error {
	if err := a.transform(dst, frame); err != nil {
		return err
	}

	vecmath.Power(dst[:a.Bins()], a.re, a.im)

	return nil
}

// Magnitude writes the normalised magnitude spectrum of frame into dst.
func (a *Analyzer) Magnitude(dst, frame []float64) error {
	if err := a.transform(dst, frame); err != nil {
		return err
	}

	vecmath.Magnitude(dst[:a.Bins()], a.re, a.im)

	return nil
}

// transform windows frame, runs the FFT and leaves the non-negative bins
// in a.re and a.im.
func (a *Analyzer) transform(dst, frame []float64) error {
	if len(dst) < a.Bins() {
		return fmt.Errorf("spectrum: dst holds %d bins, need %d", len(dst), a.Bins())
	}

	n := min(len(frame), a.size)
	clear(a.frame)
	vecmath.MulBlock(a.frame[:n], frame[:n], a.window[:n])

	for i, v := range a.frame {
		a.in[i] = complex(v*a.norm, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for k := range a.Bins() {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	return nil
}

// Average returns the Welch average magnitude spectrum of x using frames
// with 50% overlap. Signals shorter than one frame are zero-padded.
func (a *Analyzer) Average(x []float64) ([]float64, error) {
	n := a.Bins()
	sum := make([]float64, n)
	hop := a.size / 2

	frames := 0
	for start := 0; frames == 0 || start+a.size <= len(x); start += hop {
		end := min(start+a.size, len(x))
		if err := a.Power(a.power, x[start:end]); err != nil {
			return nil, err
		}

		vecmath.AddBlockInPlace(sum, a.power)
		frames++
	}

	vecmath.ScaleBlock(sum, sum, 1/float64(frames))

	for k, p := range sum {
		sum[k] = math.Sqrt(p)
	}

	return sum, nil
}

// Centroid returns the magnitude-weighted mean frequency of mag in Hz, or
// 0 for an all-zero spectrum.
func (a *Analyzer) Centroid(mag []float64) float64 {
	var num, den float64
	for k, m := range mag[:min(len(mag), a.Bins())] {
		num += a.BinFrequency(k) * m
		den += m
	}

	if den == 0 {
		return 0
	}

	return num / den
}

// BandEnergy returns the summed power of the bins of mag whose centre lies
// in [lo, hi) Hz.
func (a *Analyzer) BandEnergy(mag []float64, lo, hi float64) float64 {
	var e float64
	for k, m := range mag[:min(len(mag), a.Bins())] {
		if f := a.BinFrequency(k); f >= lo && f < hi {
			e += m * m
		}
	}

	return e
}
