package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-tone/dsp/buffer"
)

func ExampleMixer() {
	b := buffer.FromChannels([]float64{1, 1})

	m := buffer.NewMixer(1, 2)
	m.SetWetMix(0.5)
	m.PushDry(b)

	b.Scale(0) // an effect that silences the block
	m.MixWet(b)

	fmt.Println(b.Channel(0))

	// Output:
	// [0.5 0.5]
}
