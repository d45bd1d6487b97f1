// Package modulation provides time-varying delay effects.
//
// Chorus runs one LFO-modulated short delay line per channel and blends
// the delayed voice with its input by an internal mix.
package modulation
