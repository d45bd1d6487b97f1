// Package preset holds the factory presets: named macro and mode states.
package preset

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-tone/tone"
)

// Preset is a named macro and mode state.
type Preset struct {
	Name   string
	Macros tone.Macros
	Mode   tone.Mode
}

// String returns the preset name.
func (p Preset) String() string { return p.Name }

// factory stores mode as the normalised choice value a host parameter
// would carry.
var factory = []struct {
	name string
	m    tone.Macros
	mode float64
}{
	{
		name: "Rhythm Warm",
		m:    tone.Macros{Character: 0.40, Thump: 0.70, Body: 0.50, Shimmer: 0.20, Spank: 0.40, Space: 0},
		mode: 0,
	},
	{
		name: "Rhythm Slappy",
		m:    tone.Macros{Character: 0.199766, Thump: 0.475688, Body: 0.693409, Shimmer: 0.838713, Spank: 1, Space: 0},
		mode: 0,
	},
	{
		name: "Lead Air",
		m:    tone.Macros{Character: 0.65, Thump: 0.35, Body: 0.40, Shimmer: 0.75, Spank: 0.45, Space: 0.25},
		mode: 0.5,
	},
	{
		name: "Clean Smooth",
		m:    tone.Macros{Character: 0.35, Thump: 0.25, Body: 0.50, Shimmer: 0.55, Spank: 0.10, Space: 0.40},
		mode: 1,
	},
}

// Factory returns the factory presets in display order.
func Factory() []Preset {
	out := make([]Preset, len(factory))
	for i, f := range factory {
		out[i] = Preset{Name: f.name, Macros: f.m, Mode: tone.ModeFromNormalized(f.mode)}
	}

	return out
}

// Names returns the factory preset names in display order.
func Names() []string {
	names := make([]string, len(factory))
	for i, f := range factory {
		names[i] = f.name
	}

	return names
}

// ByIndex returns factory preset i.
func ByIndex(i int) (Preset, error) {
	if i < 0 || i >= len(factory) {
		return Preset{}, fmt.Errorf("preset: index %d out of range [0, %d)", i, len(factory))
	}

	return Factory()[i], nil
}

// Lookup finds a factory preset by name. Matching ignores case and
// treats '-' and '_' as spaces, so "lead-air" finds "Lead Air".
func Lookup(name string) (Preset, error) {
	key := normalize(name)
	for _, p := range Factory() {
		if normalize(p.Name) == key {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("preset: unknown preset %q", name)
}

func normalize(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
