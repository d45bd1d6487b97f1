// Package loudness measures ITU-R BS.1770 / EBU R128 loudness of planar
// buffers: momentary (400 ms), short-term (3 s) and gated integrated
// loudness, plus per-channel sample peaks.
//
// The tonesauce renderer uses it to report how far the chain's autoGain
// keeps the output from the input level.
package loudness
