package tone

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-tone/dsp/core"
)

// MacroID identifies one of the six macro dials.
type MacroID int

const (
	MacroCharacter MacroID = iota
	MacroThump
	MacroBody
	MacroShimmer
	MacroSpank
	MacroSpace
	NumMacros
)

var macroNames = [...]string{
	MacroCharacter: "character",
	MacroThump:     "thump",
	MacroBody:      "body",
	MacroShimmer:   "shimmer",
	MacroSpank:     "spank",
	MacroSpace:     "space",
}

func (id MacroID) String() string {
	if id < 0 || id >= NumMacros {
		return fmt.Sprintf("MacroID(%d)", int(id))
	}

	return macroNames[id]
}

// ParseMacroID resolves a macro by name, case-insensitively.
func ParseMacroID(name string) (MacroID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range macroNames {
		if s == n {
			return MacroID(i), nil
		}
	}

	return 0, fmt.Errorf("tone: unknown macro %q", name)
}

// Macros holds the six dial positions, each nominally in [0, 1].
type Macros struct {
	Character float64
	Thump     float64
	Body      float64
	Shimmer   float64
	Spank     float64
	Space     float64
}

// DefaultMacros returns the neutral dial positions: character and space
// at 0, everything else centred.
func DefaultMacros() Macros {
	return Macros{
		Thump:   0.5,
		Body:    0.5,
		Shimmer: 0.5,
		Spank:   0.5,
	}
}

// Get returns the value of macro id, or 0 for an unknown id.
func (m Macros) Get(id MacroID) float64 {
	switch id {
	case MacroCharacter:
		return m.Character
	case MacroThump:
		return m.Thump
	case MacroBody:
		return m.Body
	case MacroShimmer:
		return m.Shimmer
	case MacroSpank:
		return m.Spank
	case MacroSpace:
		return m.Space
	default:
		return 0
	}
}

// Set stores v into macro id. Unknown ids are ignored.
func (m *Macros) Set(id MacroID, v float64) {
	switch id {
	case MacroCharacter:
		m.Character = v
	case MacroThump:
		m.Thump = v
	case MacroBody:
		m.Body = v
	case MacroShimmer:
		m.Shimmer = v
	case MacroSpank:
		m.Spank = v
	case MacroSpace:
		m.Space = v
	}
}

// Clamped returns m with every dial limited to [0, 1]; NaN becomes 0.
func (m Macros) Clamped() Macros {
	var out Macros
	for id := range NumMacros {
		out.Set(id, core.ClampFinite(m.Get(id), 0, 1, 0))
	}

	return out
}
