package tone

import (
	"testing"

	"github.com/cwbudde/algo-tone/dsp/core"
)

const (
	testSampleRate = 48000.0
	testBlockSize  = 480
)

func testConfig(channels int) core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(testSampleRate),
		core.WithBlockSize(testBlockSize),
		core.WithChannels(channels),
	)
}

// neutralParameters bypasses every stage and applies unity gain.
func neutralParameters() EngineParameters {
	p := initialParameters()
	p.Dynamics.CompThreshold = 6
	p.Saturation.Drive = 0
	p.OutputAutoGain = 1

	return p
}

func mustPrepareProcessor(t *testing.T, p *ModeProcessor, channels int) {
	t.Helper()

	if err := p.Prepare(testConfig(channels)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
}
