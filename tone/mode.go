package tone

import (
	"fmt"
	"strings"
)

// Mode selects a playing style. It changes both the mapping tables and the
// order in which stages run.
type Mode int32

const (
	ModeRhythm Mode = iota
	ModeLead
	ModeClean
)

var modeNames = [...]string{
	ModeRhythm: "rhythm",
	ModeLead:   "lead",
	ModeClean:  "clean",
}

// Modes lists every valid mode.
func Modes() []Mode {
	return []Mode{ModeRhythm, ModeLead, ModeClean}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModeRhythm && m <= ModeClean
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int32(m))
	}

	return modeNames[m]
}

// ParseMode resolves a mode by name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}

	return ModeRhythm, fmt.Errorf("tone: unknown mode %q", name)
}

// ModeFromNormalized maps a normalised choice value in [0, 1] onto a mode
// the way a three-way host parameter does: 0 → rhythm, 0.5 → lead,
// 1 → clean.
func ModeFromNormalized(v float64) Mode {
	switch {
	case !(v >= 0.25):
		return ModeRhythm
	case v < 0.75:
		return ModeLead
	default:
		return ModeClean
	}
}
