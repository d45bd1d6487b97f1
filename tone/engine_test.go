package tone

import (
	"math"
	"sync"
	"testing"
)

func TestEngineInitialSnapshotIsNeutral(t *testing.T) {
	e := NewEngine()

	snap := e.Snapshot()
	if snap != initialParameters() {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	if snap.Saturation.Mix != 0 || snap.Spatial.ReverbMix != 0 || snap.OutputAutoGain != 1 {
		t.Fatalf("initial snapshot is not neutral: %+v", snap)
	}

	if e.Smoothing() {
		t.Fatal("smoothing must default to off")
	}
}

func TestEngineUpdatePublishes(t *testing.T) {
	e := NewEngine()
	if err := e.Prepare(testConfig(2)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	m := Macros{Character: 0.6, Thump: 0.7, Body: 0.3, Shimmer: 0.8, Spank: 0.4, Space: 0.5}
	got := e.Update(m, ModeLead)

	want := MapAll(m, ModeLead)
	want.OutputAutoGain = AutoGain(&want)

	if *got != want {
		t.Fatalf("Update = %+v\nwant %+v", *got, want)
	}

	if snap := e.Snapshot(); snap != want {
		t.Fatalf("Snapshot = %+v\nwant %+v", snap, want)
	}

	if e.Mode() != ModeLead {
		t.Fatalf("Mode = %v, want lead", e.Mode())
	}
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(2)
	cfg.SampleRate = 0

	if err := NewEngine().Prepare(cfg); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestEngineSmoothing(t *testing.T) {
	// 20 ms at 48 kHz is two 480-sample blocks.
	e := NewEngine(WithSmoothing(true), WithSmoothingTime(0.02))
	if err := e.Prepare(testConfig(2)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	dry := DefaultMacros()
	wet := dry
	wet.Space = 1

	first := e.Update(dry, ModeRhythm)
	if first.Spatial.ReverbMix != 0 {
		t.Fatalf("first update must jump to target, got reverb mix %v", first.Spatial.ReverbMix)
	}

	target := rhythmTable.maxReverbMix

	half := e.Update(wet, ModeRhythm).Spatial.ReverbMix
	if math.Abs(half-target/2) > 1e-12 {
		t.Fatalf("after one block reverb mix = %v, want %v", half, target/2)
	}

	full := e.Update(wet, ModeRhythm)
	if math.Abs(full.Spatial.ReverbMix-target) > 1e-12 {
		t.Fatalf("after two blocks reverb mix = %v, want %v", full.Spatial.ReverbMix, target)
	}

	// Unsmoothed fields follow the target at once.
	if full.Spatial.ReverbSize != rhythmTable.sizeMax {
		t.Fatalf("ReverbSize = %v, want %v", full.Spatial.ReverbSize, rhythmTable.sizeMax)
	}
}

func TestEngineWithoutSmoothingJumps(t *testing.T) {
	e := NewEngine()
	if err := e.Prepare(testConfig(2)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	m := DefaultMacros()
	e.Update(m, ModeClean)

	m.Space = 1
	if got := e.Update(m, ModeClean).Spatial.ReverbMix; math.Abs(got-cleanTable.maxReverbMix) > 1e-12 {
		t.Fatalf("reverb mix = %v, want %v", got, cleanTable.maxReverbMix)
	}
}

func TestEngineSnapshotConcurrent(t *testing.T) {
	e := NewEngine(WithSmoothing(true))
	if err := e.Prepare(testConfig(2)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for {
			select {
			case <-done:
				return
			default:
			}

			snap := e.Snapshot()
			if g := snap.OutputAutoGain; !(g >= minAutoGain && g <= maxAutoGain) {
				t.Errorf("snapshot autoGain %v out of range", g)
				return
			}
		}
	}()

	m := DefaultMacros()
	for i := range 2000 {
		m.Space = float64(i%100) / 100
		m.Character = float64(i%37) / 37
		e.Update(m, Mode(i%3))
	}

	close(done)
	wg.Wait()
}
