// Package host wraps the tone engine and mode processor in the lifecycle a
// plugin host or offline renderer drives: Prepare, Reset and Process on the
// audio goroutine, macro and mode changes from a control goroutine.
//
// Control inputs are stored atomically and sampled once at the start of
// each block, so a block never sees a half-applied change.
package host
