package spectrum

import (
	"fmt"
	"math"
	"strings"
)

// Band is a named frequency range.
type Band struct {
	Name   string
	Lo, Hi float64 // Hz
}

// ToneBands follow the macro dials: thump, body, presence, shimmer, air.
var ToneBands = []Band{
	{"low", 20, 250},
	{"low-mid", 250, 1000},
	{"mid", 1000, 4000},
	{"high", 4000, 10000},
	{"air", 10000, 20000},
}

// Profile holds the energy of each band in dB, in band order.
type Profile struct {
	Bands  []Band
	Levels []float64 // dB, -Inf for silence
}

// String lists each band level.
func (p Profile) String() string {
	var sb strings.Builder
	for i, b := range p.Bands {
		if i > 0 {
			sb.WriteString(" ")
		}

		fmt.Fprintf(&sb, "%s=%.1fdB", b.Name, p.Levels[i])
	}

	return sb.String()
}

// Profile measures the energy of mag in each band.
func (a *Analyzer) Profile(mag []float64, bands []Band) Profile {
	p := Profile{Bands: bands, Levels: make([]float64, len(bands))}
	for i, b := range bands {
		e := a.BandEnergy(mag, b.Lo, b.Hi)
		if e <= 0 {
			p.Levels[i] = math.Inf(-1)
			continue
		}

		p.Levels[i] = 10 * math.Log10(e)
	}

	return p
}
