// Package wav reads and writes RIFF WAVE files holding 16/24-bit PCM or
// 32-bit float samples, converted to and from interleaved float32.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Format is a sample encoding.
type Format int

const (
	PCM16 Format = iota
	PCM24
	Float32
)

const (
	tagPCM   = 1
	tagFloat = 3
)

// ErrNotWAVE reports input that is not a RIFF WAVE stream.
var ErrNotWAVE = errors.New("wav: not a RIFF WAVE stream")

// ErrUnsupported reports a WAVE encoding this package does not decode.
var ErrUnsupported = errors.New("wav: unsupported encoding")

// Audio is decoded interleaved audio.
type Audio struct {
	SampleRate int
	Channels   int
	Format     Format
	Samples    []float32 // interleaved, nominally in [-1, 1]
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}

	return len(a.Samples) / a.Channels
}

// Read decodes a whole WAVE stream. Unknown chunks are skipped.
func Read(r io.Reader) (*Audio, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}

	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, ErrNotWAVE
	}

	var (
		a       Audio
		tag     uint16
		bits    uint16
		haveFmt bool
	)

	for {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("wav: no data chunk: %w", io.ErrUnexpectedEOF)
			}

			return nil, fmt.Errorf("wav: read chunk header: %w", err)
		}

		id := string(ch[0:4])
		size := int64(binary.LittleEndian.Uint32(ch[4:8]))

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}

			if len(body) < 16 {
				return nil, fmt.Errorf("wav: fmt chunk of %d bytes: %w", len(body), ErrUnsupported)
			}

			tag = binary.LittleEndian.Uint16(body[0:2])
			a.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			a.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits = binary.LittleEndian.Uint16(body[14:16])

			// WAVE_FORMAT_EXTENSIBLE carries the real tag in the sub-format GUID.
			if tag == 0xFFFE && len(body) >= 26 {
				tag = binary.LittleEndian.Uint16(body[24:26])
			}

			haveFmt = true

			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return nil, fmt.Errorf("wav: fmt padding: %w", err)
				}
			}
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("wav: data before fmt: %w", ErrUnsupported)
			}

			f, err := formatOf(tag, bits)
			if err != nil {
				return nil, err
			}

			if a.Channels <= 0 || a.SampleRate <= 0 {
				return nil, fmt.Errorf("wav: %d channels at %d Hz: %w", a.Channels, a.SampleRate, ErrUnsupported)
			}

			body, err := io.ReadAll(io.LimitReader(r, size))
			if err != nil {
				return nil, fmt.Errorf("wav: read data: %w", err)
			}

			a.Format = f
			a.Samples = decode(body, f)

			return &a, nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return nil, fmt.Errorf("wav: skip %q chunk: %w", id, err)
			}
		}
	}
}

func formatOf(tag, bits uint16) (Format, error) {
	switch {
	case tag == tagPCM && bits == 16:
		return PCM16, nil
	case tag == tagPCM && bits == 24:
		return PCM24, nil
	case tag == tagFloat && bits == 32:
		return Float32, nil
	default:
		return 0, fmt.Errorf("wav: format tag %d with %d bits: %w", tag, bits, ErrUnsupported)
	}
}

func (f Format) bytes() int {
	switch f {
	case PCM24:
		return 3
	case Float32:
		return 4
	default:
		return 2
	}
}

// Full-scale integer codes. Encode and decode share them so that ±1
// survives a round trip; the extra negative code decodes to -1.
const (
	pcm16Scale = 32767
	pcm24Scale = 8388607
)

func decode(body []byte, f Format) []float32 {
	w := f.bytes()
	out := make([]float32, len(body)/w)

	for i := range out {
		b := body[i*w:]

		switch f {
		case PCM16:
			out[i] = max(-1, float32(int16(binary.LittleEndian.Uint16(b)))/pcm16Scale)
		case PCM24:
			v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
			out[i] = max(-1, float32(v)/pcm24Scale)
		case Float32:
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		}
	}

	return out
}

// Write encodes a as a WAVE stream in a.Format. PCM output is clipped to
// [-1, 1].
func Write(w io.Writer, a *Audio) error {
	if a.Channels <= 0 || a.SampleRate <= 0 {
		return fmt.Errorf("wav: %d channels at %d Hz: %w", a.Channels, a.SampleRate, ErrUnsupported)
	}

	bw := a.Format.bytes()
	tag := uint16(tagPCM)
	if a.Format == Float32 {
		tag = tagFloat
	}

	dataSize := len(a.Samples) * bw

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	putU32(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	putU32(&buf, 16)
	putU16(&buf, tag)
	putU16(&buf, uint16(a.Channels))
	putU32(&buf, uint32(a.SampleRate))
	putU32(&buf, uint32(a.SampleRate*a.Channels*bw))
	putU16(&buf, uint16(a.Channels*bw))
	putU16(&buf, uint16(8*bw))

	buf.WriteString("data")
	putU32(&buf, uint32(dataSize))

	for _, s := range a.Samples {
		switch a.Format {
		case Float32:
			putU32(&buf, math.Float32bits(s))
		case PCM24:
			v := int32(math.Round(float64(clip(s)) * pcm24Scale))
			buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
		default:
			putU16(&buf, uint16(int16(math.Round(float64(clip(s))*pcm16Scale))))
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}

	return nil
}

func clip(s float32) float32 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	case math.IsNaN(float64(s)):
		return 0
	default:
		return s
	}
}

func putU16(b *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Write(tmp[:])
}

func putU32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

// ParseFormat resolves "pcm16", "pcm24" or "float32".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "pcm16", "16":
		return PCM16, nil
	case "pcm24", "24":
		return PCM24, nil
	case "float32", "float", "32f":
		return Float32, nil
	default:
		return 0, fmt.Errorf("wav: unknown format %q", s)
	}
}
