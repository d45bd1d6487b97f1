package stage

import (
	"testing"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/filter/biquad"
	"github.com/cwbudde/algo-tone/internal/testutil"
)

const (
	testSampleRate = 48000.0
	testBlockSize  = 512
)

func testConfig(channels int) core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(testSampleRate),
		core.WithBlockSize(testBlockSize),
		core.WithChannels(channels),
	)
}

func mustPrepare(t *testing.T, p Processor, channels int) {
	t.Helper()

	if err := p.Prepare(testConfig(channels)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
}

// processBlocks runs p over b in host-sized blocks.
func processBlocks(p Processor, b *buffer.Buffer) {
	testutil.Blocks(b, testBlockSize, p.Process)
}

func coeffs(c biquad.Coefficients) [5]float64 {
	return [5]float64{c.B0, c.B1, c.B2, c.A1, c.A2}
}
