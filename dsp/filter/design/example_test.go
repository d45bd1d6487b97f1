package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-tone/dsp/filter/design"
)

func ExampleHighShelfGain() {
	c := design.HighShelfGain(8000, 2, 0.7, 48000)

	fmt.Printf("100 Hz:   %.2f dB\n", c.MagnitudeDB(100, 48000))
	fmt.Printf("20000 Hz: %.2f dB\n", c.MagnitudeDB(20000, 48000))
	// Output:
	// 100 Hz:   0.00 dB
	// 20000 Hz: 6.01 dB
}
