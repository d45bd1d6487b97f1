// Package reverb provides a stereo Schroeder-Moorer reverb in the Freeverb
// layout: eight damped parallel combs and four series allpasses per
// channel, with the right channel's delays offset to decorrelate the
// tails.
package reverb
