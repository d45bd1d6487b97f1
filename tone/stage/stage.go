package stage

import (
	"errors"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
)

// ErrNotPrepared is returned by operations that need a prepared stage.
var ErrNotPrepared = errors.New("stage: not prepared")

// Processor is the lifecycle shared by every stage.
type Processor interface {
	Prepare(cfg core.ProcessorConfig) error
	Process(b *buffer.Buffer)
	Reset()
	Bypassed() bool
}

var (
	_ Processor = (*EQ)(nil)
	_ Processor = (*Dynamics)(nil)
	_ Processor = (*Saturation)(nil)
	_ Processor = (*Spatial)(nil)
)
