package saturation

import (
	"fmt"
	"math"
	"strings"
)

// Curve selects a waveshaping transfer function.
type Curve int

const (
	// Tape is a gentle symmetric soft clip: tanh(0.9x)·0.8.
	Tape Curve = iota
	// Tube adds a cubic term before the clip: tanh(1.5x - 0.2x³).
	Tube
	// Transistor clips harder and adds a small odd ripple:
	// tanh(2.5x) + 0.05·sin(6x).
	Transistor
	// Exciter blends a sine fold with the input: 0.6·sin(2x) + 0.4x.
	Exciter
)

var curveNames = [...]string{
	Tape:       "tape",
	Tube:       "tube",
	Transistor: "transistor",
	Exciter:    "exciter",
}

// String returns the lower-case curve name.
func (c Curve) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return fmt.Sprintf("Curve(%d)", int(c))
	}

	return curveNames[c]
}

// Valid reports whether c names a known curve.
func (c Curve) Valid() bool {
	return c >= Tape && c <= Exciter
}

// ParseCurve resolves a curve by name, case-insensitively.
func ParseCurve(name string) (Curve, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range curveNames {
		if s == n {
			return Curve(i), nil
		}
	}

	return Tape, fmt.Errorf("saturation: unknown curve %q", name)
}

// Shape applies the curve to a single sample. Unknown curves fall back to
// Tape.
func (c Curve) Shape(x float64) float64 {
	switch c {
	case Tube:
		return mathTanh(1.5*x - 0.2*x*x*x)
	case Transistor:
		return mathTanh(2.5*x) + 0.05*math.Sin(6*x)
	case Exciter:
		return 0.6*math.Sin(2*x) + 0.4*x
	default:
		return mathTanh(0.9*x) * 0.8
	}
}

// ShapeBlock applies the curve in place after adding bias and multiplying
// by drive: buf[i] = Shape((buf[i] + bias) · drive).
func (c Curve) ShapeBlock(buf []float64, bias, drive float64) {
	switch c {
	case Tube:
		for i, x := range buf {
			x = (x + bias) * drive
			buf[i] = mathTanh(1.5*x - 0.2*x*x*x)
		}
	case Transistor:
		for i, x := range buf {
			x = (x + bias) * drive
			buf[i] = mathTanh(2.5*x) + 0.05*math.Sin(6*x)
		}
	case Exciter:
		for i, x := range buf {
			x = (x + bias) * drive
			buf[i] = 0.6*math.Sin(2*x) + 0.4*x
		}
	default:
		for i, x := range buf {
			buf[i] = mathTanh(0.9*(x+bias)*drive) * 0.8
		}
	}
}
