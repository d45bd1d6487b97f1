package tone

import (
	"math"
	"testing"
)

func TestSmootherRamp(t *testing.T) {
	s := NewSmoother(1000, 0.01) // 10 samples
	s.SetCurrentAndTarget(0)
	s.SetTarget(1)

	if !s.IsSmoothing() {
		t.Fatal("expected a ramp in progress")
	}

	for i := 1; i <= 10; i++ {
		if got, want := s.Next(), float64(i)/10; math.Abs(got-want) > 1e-12 {
			t.Fatalf("step %d = %v, want %v", i, got, want)
		}
	}

	if s.IsSmoothing() || s.Current() != 1 {
		t.Fatalf("ramp did not settle: current=%v smoothing=%v", s.Current(), s.IsSmoothing())
	}
}

func TestSmootherSkip(t *testing.T) {
	s := NewSmoother(1000, 0.01)
	s.SetCurrentAndTarget(2)
	s.SetTarget(4)

	if got := s.Skip(5); math.Abs(got-3) > 1e-12 {
		t.Fatalf("Skip(5) = %v, want 3", got)
	}

	if got := s.Skip(100); got != 4 {
		t.Fatalf("Skip past end = %v, want 4", got)
	}

	if got := s.Skip(0); got != 4 {
		t.Fatalf("Skip(0) = %v, want 4", got)
	}
}

func TestSmootherRetargetKeepsPosition(t *testing.T) {
	s := NewSmoother(1000, 0.01)
	s.SetCurrentAndTarget(0)
	s.SetTarget(1)
	s.Skip(5)

	s.SetTarget(1) // same target: ramp continues
	if got := s.Skip(5); got != 1 {
		t.Fatalf("after repeated target = %v, want 1", got)
	}

	s.SetTarget(0)
	if got := s.Skip(5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("reversed ramp midpoint = %v, want 0.5", got)
	}
}

func TestSmootherJumps(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		from    float64
		to      float64
	}{
		{"zeroLength", 0, 0, 3},
		{"nanTarget", 0.01, 0, math.NaN()},
		{"nanCurrent", 0.01, math.NaN(), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSmoother(1000, tt.seconds)
			s.SetCurrentAndTarget(tt.from)
			s.SetTarget(tt.to)

			if s.IsSmoothing() {
				t.Fatal("expected an immediate jump")
			}

			got := s.Current()
			if math.IsNaN(tt.to) {
				if !math.IsNaN(got) {
					t.Fatalf("Current = %v, want NaN", got)
				}

				return
			}

			if got != tt.to {
				t.Fatalf("Current = %v, want %v", got, tt.to)
			}
		})
	}
}
