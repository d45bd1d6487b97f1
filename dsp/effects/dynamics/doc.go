// Package dynamics provides the level-dependent processors of the tone
// chain.
//
// Included processors:
//   - Compressor: feed-forward hard-knee compressor with peak ballistics and
//     linked multi-channel detection.
//   - EnvelopeFollower: asymmetric one-pole level follower.
//   - DeEsser: block-rate sibilance detector driving a high-shelf cut.
//   - TransientShaper: fast/slow envelope difference driving attack and
//     sustain gain.
//   - Limiter: lookahead output limiter built on the compressor.
//
// Build with -tags fastmath to replace the log/exp gain computer with the
// algo-approx approximations.
package dynamics
