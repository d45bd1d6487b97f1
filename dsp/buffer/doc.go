// Package buffer provides the planar multi-channel sample block that flows
// through the tone chain, plus the linear dry/wet [Mixer] used to blend a
// processed block with its captured input.
//
// Buffers are allocated once (at prepare time) with a maximum length and
// then resliced per block with [Buffer.SetLen], so steady-state processing
// does not allocate.
package buffer
