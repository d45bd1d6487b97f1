// Package resample provides streaming 2× oversampling for nonlinear
// processing.
//
// An [Oversampler] upsamples each channel by two with a Kaiser-windowed
// half-band FIR split into two polyphase branches, and brings the processed
// signal back down with the same prototype. State is kept per channel
// between blocks and nothing is allocated after construction.
//
// Quality modes:
//
//	mode            taps/phase   Kaiser beta
//	QualityFast     8            5.0
//	QualityBalanced 16           7.0
//	QualityBest     32           9.0
//
// The round trip delays the signal by [Oversampler.Latency] base-rate
// samples.
package resample
