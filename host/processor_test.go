package host

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/internal/testutil"
	"github.com/cwbudde/algo-tone/tone"
	"github.com/cwbudde/algo-tone/tone/preset"
)

const (
	testSampleRate = 48000.0
	testBlockSize  = 256
)

func newPrepared(t *testing.T, channels int, opts ...Option) *Processor {
	t.Helper()

	p := NewProcessor(opts...)
	if err := p.Prepare(testSampleRate, testBlockSize, channels); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	return p
}

func TestProcessBeforePrepareIsNoop(t *testing.T) {
	p := NewProcessor(WithOutputGainDB(6))

	b := testutil.NoiseBuffer(1, 2, 0.5, 128)
	want := b.Clone()

	p.Process(b)
	testutil.RequireBuffersNearlyEqual(t, b, want, 0)

	if err := p.ProcessInterleaved(make([]float32, 8)); err != ErrNotPrepared {
		t.Fatalf("ProcessInterleaved before Prepare: err = %v, want ErrNotPrepared", err)
	}
}

func TestPrepareRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		sr       float64
		block    int
		channels int
	}{
		{"zeroRate", 0, 256, 2},
		{"zeroBlock", 48000, 0, 2},
		{"zeroChannels", 48000, 256, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewProcessor().Prepare(tt.sr, tt.block, tt.channels); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMacrosAreClamped(t *testing.T) {
	p := NewProcessor()

	p.SetMacro(tone.MacroSpace, 3)
	p.SetMacro(tone.MacroThump, math.NaN())
	p.SetMacro(tone.MacroID(99), 0.5)

	m := p.Macros()
	if m.Space != 1 || m.Thump != 0 {
		t.Fatalf("Macros = %+v", m)
	}

	p.SetMacros(tone.Macros{Character: -1, Body: 0.25})
	if m := p.Macros(); m.Character != 0 || m.Body != 0.25 {
		t.Fatalf("SetMacros stored %+v", m)
	}
}

func TestApplyPresetAndDirty(t *testing.T) {
	p := NewProcessor()

	pr, err := preset.Lookup("Lead Air")
	if err != nil {
		t.Fatal(err)
	}

	p.ApplyPreset(pr)

	if p.Mode() != tone.ModeLead || p.Macros() != pr.Macros {
		t.Fatalf("preset not applied: mode %v macros %+v", p.Mode(), p.Macros())
	}

	if p.PresetName() != "Lead Air" || p.Dirty() {
		t.Fatalf("name %q dirty %v", p.PresetName(), p.Dirty())
	}

	p.SetMode(tone.ModeLead)
	if p.Dirty() {
		t.Fatal("setting the same mode must not mark dirty")
	}

	p.SetMacro(tone.MacroBody, 0.9)
	if !p.Dirty() {
		t.Fatal("macro change must mark dirty")
	}
}

func TestProcessUsesMacrosAndMode(t *testing.T) {
	p := newPrepared(t, 2)

	pr, _ := preset.Lookup("Clean Smooth")
	p.ApplyPreset(pr)

	b := testutil.SineBuffer(2, 330, testSampleRate, 0.3, 4*testBlockSize)
	p.Process(b)
	testutil.RequireFinite(t, b)

	want := tone.MapAll(pr.Macros, tone.ModeClean)
	got := p.Parameters()

	if got.Spatial.ReverbMix != want.Spatial.ReverbMix || got.EQ != want.EQ {
		t.Fatalf("published parameters do not follow preset: %+v", got.Spatial)
	}
}

func TestOutputGain(t *testing.T) {
	p := newPrepared(t, 1, WithOutputGainDB(-6))

	// Default macros bypass every stage except the dynamics, so compare
	// against the same processor run at unity trim.
	ref := newPrepared(t, 1)

	b := testutil.SineBuffer(1, 440, testSampleRate, 0.25, 2*testBlockSize)
	r := b.Clone()

	p.Process(b)
	ref.Process(r)

	g := math.Pow(10, -6.0/20)
	for i, v := range r.Channel(0) {
		if math.Abs(b.Channel(0)[i]-g*v) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, b.Channel(0)[i], g*v)
		}
	}

	if math.Abs(p.OutputGainDB()+6) > 1e-9 || p.InputGainDB() != 0 {
		t.Fatalf("trims = %v / %v dB", p.InputGainDB(), p.OutputGainDB())
	}

	p.SetInputGainDB(100)
	if math.Abs(p.InputGainDB()-MaxGainDB) > 1e-9 {
		t.Fatalf("input trim = %v, want %v", p.InputGainDB(), MaxGainDB)
	}
}

func TestLimiterHoldsCeiling(t *testing.T) {
	p := newPrepared(t, 2, WithOutputGainDB(18), WithLimiter(-1))
	plain := newPrepared(t, 2)

	if got, want := p.Latency(), plain.Latency()+144; got != want {
		t.Fatalf("Latency = %d, want %d", got, want)
	}

	b := testutil.SineBuffer(2, 220, testSampleRate, 0.5, int(testSampleRate)/2)
	p.Process(b)

	ceiling := math.Pow(10, -1.0/20)
	for ch := range 2 {
		if peak := testutil.Peak(b.Channel(ch)[2400:]); peak > ceiling*1.05 {
			t.Fatalf("ch %d peak %v above ceiling %v", ch, peak, ceiling)
		}
	}

	testutil.RequireFinite(t, b)
}

func TestLongBlocksAreSplit(t *testing.T) {
	a := newPrepared(t, 2)
	b := newPrepared(t, 2)

	m := tone.Macros{Character: 0.7, Thump: 0.6, Body: 0.4, Shimmer: 0.6, Spank: 0.7, Space: 0.3}
	a.SetMacros(m)
	b.SetMacros(m)
	a.SetMode(tone.ModeLead)
	b.SetMode(tone.ModeLead)

	whole := testutil.NoiseBuffer(5, 2, 0.3, 5*testBlockSize+17)
	split := whole.Clone()

	a.Process(whole)
	testutil.Blocks(split, testBlockSize, b.Process)

	testutil.RequireBuffersNearlyEqual(t, whole, split, 0)
}

func TestProcessInterleavedMatchesPlanar(t *testing.T) {
	a := newPrepared(t, 2)
	b := newPrepared(t, 2)

	for _, p := range []*Processor{a, b} {
		p.SetMacros(tone.Macros{Character: 0.5, Thump: 0.5, Body: 0.5, Shimmer: 0.5, Spank: 0.5, Space: 0.5})
	}

	planar := testutil.NoiseBuffer(6, 2, 0.3, 3*testBlockSize)

	frames := make([]float32, 2*planar.Len())
	planar.Interleave(frames)

	// Round the planar input through float32 so both paths see the same
	// samples.
	planar.Deinterleave(frames)

	if err := a.ProcessInterleaved(frames); err != nil {
		t.Fatal(err)
	}

	b.Process(planar)

	got := buffer.New(2, planar.Len())
	got.Deinterleave(frames)

	testutil.RequireBuffersNearlyEqual(t, got, planar, 1e-6)
}

func TestLoggerReceivesLifecycle(t *testing.T) {
	var out bytes.Buffer

	l := logrus.New()
	l.SetOutput(&out)
	l.SetLevel(logrus.DebugLevel)

	p := newPrepared(t, 2, WithLogger(l))
	p.SetMode(tone.ModeClean)
	p.Reset()

	log := out.String()
	for _, want := range []string{"processor prepared", "mode changed", "processor reset"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}

func TestConcurrentControl(t *testing.T) {
	p := newPrepared(t, 2)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := range 500 {
			p.SetMacro(tone.MacroID(i%int(tone.NumMacros)), float64(i%10)/10)
			p.SetMode(tone.Mode(i % 3))
			_ = p.Parameters()
		}
	}()

	b := buffer.New(2, testBlockSize)
	for range 200 {
		p.Process(b)
	}

	<-done
}
