// Package saturation provides memoryless waveshaping curves used to add
// harmonic colour to a signal.
//
// The curves are static transfer functions; oversampling, drive staging
// and dry/wet blending are left to the caller.
package saturation
