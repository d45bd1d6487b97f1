// Package spatial provides stereo image processing.
//
// StereoWidener scales the side component of a mid/side decomposition.
package spatial
