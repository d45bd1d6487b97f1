// Package interp provides the fractional-read interpolators used by the
// delay lines of the chorus and feedback delay.
package interp
