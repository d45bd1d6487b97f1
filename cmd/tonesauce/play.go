package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tone/host"
	"github.com/cwbudde/algo-tone/internal/wav"
)

// stream renders src through proc on demand as little-endian float32 frames.
type stream struct {
	src   *wav.Audio
	proc  *host.Processor
	auto  *automation
	block int

	pos     int // next frame to render
	index   int // next block index
	err     error
	pending []byte
	encoded []byte
	frame   []float32
}

func newStream(src *wav.Audio, proc *host.Processor, auto *automation, block int) *stream {
	return &stream{
		src:     src,
		proc:    proc,
		auto:    auto,
		block:   block,
		encoded: make([]byte, block*src.Channels*4),
		frame:   make([]float32, block*src.Channels),
	}
}

func (s *stream) Read(p []byte) (int, error) {
	n := 0

	for n < len(p) {
		if len(s.pending) == 0 {
			if !s.next() {
				if n == 0 {
					if s.err != nil {
						return 0, s.err
					}

					return 0, io.EOF
				}

				break
			}
		}

		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	return n, nil
}

// next renders one block into pending. It reports false at the end of src
// or once the processor has failed.
func (s *stream) next() bool {
	frames := s.src.Frames()
	if s.err != nil || s.pos >= frames {
		return false
	}

	s.auto.step(float64(s.pos)/float64(s.src.SampleRate), s.index)

	ch := s.src.Channels
	end := min(s.pos+s.block, frames)
	buf := s.frame[:(end-s.pos)*ch]
	copy(buf, s.src.Samples[s.pos*ch:end*ch])

	if err := s.proc.ProcessInterleaved(buf); err != nil {
		s.err = fmt.Errorf("block %d: %w", s.index, err)
		return false
	}

	s.pending = s.encoded[:len(buf)*4]
	for i, v := range buf {
		binary.LittleEndian.PutUint32(s.pending[i*4:], math.Float32bits(v))
	}

	s.pos = end
	s.index++

	return true
}

func play(src *wav.Audio, proc *host.Processor, auto *automation, block int, log *logrus.Logger) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.SampleRate,
		ChannelCount: src.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(newStream(src, proc, auto, block))
	defer player.Close()

	log.WithField("seconds", float64(src.Frames())/float64(src.SampleRate)).Info("playing")

	player.Play()

	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}

	return player.Err()
}
