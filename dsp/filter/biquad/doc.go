// Package biquad provides the second-order IIR runtime used by every
// filtering stage of the tone chain.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. A [Bank] holds one
// Section per audio channel sharing a single coefficient set, which is how
// the EQ, de-esser and tone filters run on multi-channel blocks.
//
// Coefficient design (RBJ cookbook shelves, peaks, passes) lives in
// dsp/filter/design.
package biquad
