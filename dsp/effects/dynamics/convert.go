package dynamics

// log2Of10Div20 converts decibels to the log2 domain: log2(10) / 20.
const log2Of10Div20 = 0.16609640474436813

// DBToGain converts decibels to a linear gain using the package math
// backend.
func DBToGain(db float64) float64 {
	return mathPower2(db * log2Of10Div20)
}

// GainToDB converts a linear gain to decibels, flooring the input at
// floor (which must be positive).
func GainToDB(gain, floor float64) float64 {
	if !(gain > floor) {
		gain = floor
	}

	return mathLog2(gain) / log2Of10Div20
}
