// Package design provides biquad coefficient designers.
//
// The functions follow the RBJ audio EQ cookbook and produce
// [biquad.Coefficients] for dsp/filter/biquad. Shelving and peaking designs
// come in two flavours: gain in dB (LowShelf, HighShelf, Peak) and linear
// gain factor (the *Gain variants), the latter matching how the tone chain
// stores its EQ gains.
//
// Invalid frequencies (outside (0, Nyquist)) return zero coefficients;
// callers are expected to clamp before designing.
package design
