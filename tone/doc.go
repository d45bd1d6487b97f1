// Package tone turns six macro dials and a playing mode into a complete
// set of stage parameters and runs the resulting mode-specific chain.
//
// The flow per block is:
//
//	params := engine.Update(macros, mode)   // pure mapping + autoGain
//	proc.ProcessMode(buf, params, mode)     // ordered stages + autoGain
//
// Engine owns the published parameter snapshot; ModeProcessor owns three
// resident stage chains, one per mode, each with its own state.
package tone
