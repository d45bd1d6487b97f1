package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
)

const fs = 48000.0

func TestPassResponseShape(t *testing.T) {
	lp := Lowpass(1000, Butterworth, fs)
	hp := Highpass(1000, Butterworth, fs)

	tests := []struct {
		name string
		c    biquad.Coefficients
		f    float64
		want float64
		tol  float64
	}{
		{"lowpass DC", lp, 1, 0, 0.01},
		{"lowpass cutoff", lp, 1000, -3.01, 0.05},
		{"highpass cutoff", hp, 1000, -3.01, 0.05},
		{"highpass near Nyquist", hp, 20000, 0, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.MagnitudeDB(tt.f, fs); math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("|H(%v)| = %.3f dB, want %.3f", tt.f, got, tt.want)
			}
		})
	}

	if lp.MagnitudeDB(10000, fs) > -25 {
		t.Fatal("lowpass does not attenuate a decade above cutoff")
	}

	if hp.MagnitudeDB(100, fs) > -35 {
		t.Fatal("highpass does not attenuate a decade below cutoff")
	}
}

func TestGainDesignsMatchDBDesigns(t *testing.T) {
	for _, gain := range []float64{0.25, 0.8, 1, 1.5, 4} {
		db := 20 * math.Log10(gain)

		pairs := [][2]biquad.Coefficients{
			{Peak(2000, db, 1.2, fs), PeakGain(2000, gain, 1.2, fs)},
			{LowShelf(120, db, 0.7, fs), LowShelfGain(120, gain, 0.7, fs)},
			{HighShelf(8000, db, 0.7, fs), HighShelfGain(8000, gain, 0.7, fs)},
		}

		for i, p := range pairs {
			for _, f := range []float64{50, 1000, 15000} {
				a, b := p[0].MagnitudeDB(f, fs), p[1].MagnitudeDB(f, fs)
				if math.Abs(a-b) > 1e-6 {
					t.Fatalf("gain %v design %d at %v Hz: %v dB vs %v dB", gain, i, f, a, b)
				}
			}
		}
	}
}

func TestShelfAndPeakGains(t *testing.T) {
	tests := []struct {
		name string
		c    biquad.Coefficients
		f    float64
		want float64
	}{
		{"peak centre", PeakGain(1000, 2, 1, fs), 1000, 20 * math.Log10(2)},
		{"low shelf DC", LowShelfGain(200, 0.5, 0.7, fs), 1, 20 * math.Log10(0.5)},
		{"high shelf top", HighShelfGain(4000, 2, 0.7, fs), 23999, 20 * math.Log10(2)},
		{"high shelf bottom", HighShelfGain(4000, 2, 0.7, fs), 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.MagnitudeDB(tt.f, fs); math.Abs(got-tt.want) > 0.05 {
				t.Fatalf("got %.3f dB want %.3f dB", got, tt.want)
			}
		})
	}
}

func TestUnityGainIsIdentity(t *testing.T) {
	for _, c := range []biquad.Coefficients{
		PeakGain(1000, 1, 1, fs),
		LowShelfGain(100, 1, 0.7, fs),
		HighShelfGain(9000, 1, 0.7, fs),
	} {
		for _, f := range []float64{30, 1000, 18000} {
			if db := c.MagnitudeDB(f, fs); math.Abs(db) > 1e-9 {
				t.Fatalf("unity design has %v dB at %v Hz", db, f)
			}
		}
	}
}

func TestInvalidInputs(t *testing.T) {
	zero := biquad.Coefficients{}

	for name, c := range map[string]biquad.Coefficients{
		"zero freq":      Lowpass(0, 0.7, fs),
		"above nyquist":  Highpass(30000, 0.7, fs),
		"nan freq":       PeakGain(math.NaN(), 2, 1, fs),
		"bad samplerate": HighShelfGain(1000, 2, 0.7, 0),
	} {
		if c != zero {
			t.Errorf("%s: got %v, want zero coefficients", name, c)
		}
	}

	// Invalid Q falls back to Butterworth.
	if Lowpass(1000, -1, fs) != Lowpass(1000, Butterworth, fs) {
		t.Error("negative Q did not fall back to Butterworth")
	}
}
