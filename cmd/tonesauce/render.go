package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tone/host"
	"github.com/cwbudde/algo-tone/internal/wav"
)

// render runs src through proc in blocks of block frames and returns the
// processed copy. The automation, when set, runs before every block.
func render(src *wav.Audio, proc *host.Processor, auto *automation, block int, prog *progress) (*wav.Audio, error) {
	out := &wav.Audio{
		SampleRate: src.SampleRate,
		Channels:   src.Channels,
		Format:     src.Format,
		Samples:    append([]float32(nil), src.Samples...),
	}

	frames := out.Frames()

	for i, start := 0, 0; start < frames; i, start = i+1, start+block {
		if auto != nil {
			auto.step(float64(start)/float64(out.SampleRate), i)
		}

		end := min((start+block)*out.Channels, len(out.Samples))
		if err := proc.ProcessInterleaved(out.Samples[start*out.Channels : end]); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}

		prog.update(float64(min(start+block, frames)) / float64(frames))
	}

	prog.done()

	return out, nil
}

// testSignal returns a stereo plucked-string stand-in: a bright decaying
// harmonic tone retriggered every half second on alternating roots.
func testSignal(sampleRate int, seconds float64) *wav.Audio {
	const channels = 2

	if sampleRate <= 0 {
		sampleRate = 48000
	}

	frames := int(seconds * float64(sampleRate))
	samples := make([]float32, frames*channels)
	rng := rand.New(rand.NewSource(1))

	fs := float64(sampleRate)
	period := sampleRate / 2
	roots := []float64{110, 146.83, 164.81, 98}

	for i := range frames {
		note := i / period
		t := float64(i%period) / fs
		f0 := roots[note%len(roots)]

		var v float64
		for h := 1; h <= 12; h++ {
			amp := 1 / float64(h) * math.Exp(-t*(2+float64(h)))
			v += amp * math.Sin(2*math.Pi*f0*float64(h)*t)
		}

		// Pick noise on the attack.
		v += 0.3 * math.Exp(-t*60) * (2*rng.Float64() - 1)
		v *= 0.3

		samples[i*channels] = float32(v)
		samples[i*channels+1] = float32(0.9 * v)
	}

	return &wav.Audio{SampleRate: sampleRate, Channels: channels, Format: wav.PCM16, Samples: samples}
}
