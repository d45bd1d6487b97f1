package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tone/internal/testutil"
)

const testSampleRate = 48000.0

func TestNewAnalyzerValidation(t *testing.T) {
	for _, size := range []int{0, 8, 1000} {
		if _, err := NewAnalyzer(size, testSampleRate); !errors.Is(err, ErrFrameSize) {
			t.Errorf("NewAnalyzer(%d): err = %v, want ErrFrameSize", size, err)
		}
	}

	if _, err := NewAnalyzer(1024, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestSineBinReadsAmplitude(t *testing.T) {
	a, err := NewAnalyzer(1024, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	// Bin 32 is exactly 1500 Hz.
	f := a.BinFrequency(32)
	if f != 1500 {
		t.Fatalf("BinFrequency(32) = %v", f)
	}

	mag := make([]float64, a.Bins())
	if err := a.Magnitude(mag, testutil.Sine(f, testSampleRate, 0.5, 1024)); err != nil {
		t.Fatal(err)
	}

	if math.Abs(mag[32]-0.5) > 1e-9 {
		t.Fatalf("peak bin = %v, want 0.5", mag[32])
	}

	// Hann leaks into the neighbours only.
	if mag[40] > 1e-9 {
		t.Fatalf("bin 40 = %v, want ~0", mag[40])
	}

	if c := a.Centroid(mag); math.Abs(c-1500) > 1 {
		t.Fatalf("centroid = %v, want 1500", c)
	}
}

func TestPowerIsSquaredMagnitude(t *testing.T) {
	a, err := NewAnalyzer(256, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.Noise(4, 0.5, 256)
	mag := make([]float64, a.Bins())
	pow := make([]float64, a.Bins())

	if err := a.Magnitude(mag, x); err != nil {
		t.Fatal(err)
	}

	if err := a.Power(pow, x); err != nil {
		t.Fatal(err)
	}

	for k := range mag {
		if math.Abs(mag[k]*mag[k]-pow[k]) > 1e-12 {
			t.Fatalf("bin %d: mag² %v, power %v", k, mag[k]*mag[k], pow[k])
		}
	}

	if err := a.Power(make([]float64, 3), x); err == nil {
		t.Fatal("expected error for short dst")
	}
}

func TestAverageAndProfile(t *testing.T) {
	a, err := NewAnalyzer(2048, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	low, err := a.Average(testutil.Sine(100, testSampleRate, 0.5, 48000))
	if err != nil {
		t.Fatal(err)
	}

	p := a.Profile(low, ToneBands)
	if p.Levels[0] < p.Levels[2]+40 {
		t.Fatalf("100 Hz sine profile not low-heavy: %v", p)
	}

	silent, err := a.Average(make([]float64, 100))
	if err != nil {
		t.Fatal(err)
	}

	if sp := a.Profile(silent, ToneBands); !math.IsInf(sp.Levels[0], -1) {
		t.Fatalf("silent profile = %v", sp)
	}

	if a.Centroid(silent) != 0 {
		t.Fatal("silent centroid must be 0")
	}
}
