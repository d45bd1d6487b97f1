// Package stage implements the four processing stages of the tone engine:
// tonal EQ, dynamics, oversampled saturation and spatial effects.
//
// Every stage follows the same lifecycle. Prepare allocates all state for a
// processor configuration, SetParameters clamps and applies a parameter set,
// Process mutates a block in place and Reset clears filter and delay memory.
// Process never allocates after Prepare and never fails; a stage that has
// not been prepared leaves the block untouched.
package stage
