package tone

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/resample"
	"github.com/cwbudde/algo-tone/tone/stage"
)

const autoGainEpsilon = 1e-4

// StageID names one of the four chain stages.
type StageID int

const (
	StageEQ StageID = iota
	StageDynamics
	StageSaturation
	StageSpatial
	numStages
)

func (id StageID) String() string {
	switch id {
	case StageEQ:
		return "eq"
	case StageDynamics:
		return "dynamics"
	case StageSaturation:
		return "saturation"
	case StageSpatial:
		return "spatial"
	default:
		return fmt.Sprintf("StageID(%d)", int(id))
	}
}

var stageOrders = [...][numStages]StageID{
	ModeRhythm: {StageEQ, StageDynamics, StageSaturation, StageSpatial},
	ModeLead:   {StageSaturation, StageEQ, StageDynamics, StageSpatial},
	ModeClean:  {StageEQ, StageSaturation, StageSpatial, StageDynamics},
}

// chainMode resolves the chain used for mode; unknown modes use rhythm.
func chainMode(mode Mode) Mode {
	if !mode.Valid() {
		return ModeRhythm
	}

	return mode
}

// StageOrder returns the stage execution order for mode.
func StageOrder(mode Mode) []StageID {
	order := stageOrders[chainMode(mode)]

	return order[:]
}

// StageObserver is called before each stage runs.
type StageObserver func(mode Mode, id StageID)

// ModeProcessorOption configures a ModeProcessor.
type ModeProcessorOption func(*ModeProcessor)

// WithStageObserver installs fn as the stage observer.
func WithStageObserver(fn StageObserver) ModeProcessorOption {
	return func(p *ModeProcessor) {
		p.observer = fn
	}
}

// WithOversampling passes options to every saturation stage oversampler.
func WithOversampling(opts ...resample.Option) ModeProcessorOption {
	return func(p *ModeProcessor) {
		p.osOpts = append(p.osOpts, opts...)
	}
}

// modeChain is one resident set of stages with a fixed order.
type modeChain struct {
	order  [numStages]StageID
	stages [numStages]stage.Processor

	eq         *stage.EQ
	dynamics   *stage.Dynamics
	saturation *stage.Saturation
	spatial    *stage.Spatial
}

func newModeChain(mode Mode, osOpts []resample.Option) *modeChain {
	c := &modeChain{
		order:      stageOrders[mode],
		eq:         stage.NewEQ(),
		dynamics:   stage.NewDynamics(),
		saturation: stage.NewSaturation(osOpts...),
		spatial:    stage.NewSpatial(),
	}

	c.stages = [numStages]stage.Processor{
		StageEQ:         c.eq,
		StageDynamics:   c.dynamics,
		StageSaturation: c.saturation,
		StageSpatial:    c.spatial,
	}

	return c
}

func (c *modeChain) prepare(cfg core.ProcessorConfig) error {
	for id, s := range c.stages {
		if err := s.Prepare(cfg); err != nil {
			return fmt.Errorf("tone: prepare %v: %w", StageID(id), err)
		}
	}

	return nil
}

func (c *modeChain) setParameters(p *EngineParameters) {
	c.eq.SetParameters(p.EQ)
	c.dynamics.SetParameters(p.Dynamics)
	c.saturation.SetParameters(p.Saturation)
	c.spatial.SetParameters(p.Spatial)
}

func (c *modeChain) reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}

// ModeProcessor holds one resident chain per mode and runs the selected
// chain on each block. Chains keep their own state; switching modes does
// not carry state across or crossfade.
type ModeProcessor struct {
	chains   [len(stageOrders)]*modeChain
	mode     atomic.Int32
	prepared bool

	observer StageObserver
	osOpts   []resample.Option
}

// NewModeProcessor returns an unprepared processor in rhythm mode.
func NewModeProcessor(opts ...ModeProcessorOption) *ModeProcessor {
	p := &ModeProcessor{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	for _, mode := range Modes() {
		p.chains[mode] = newModeChain(mode, p.osOpts)
	}

	return p
}

// Prepare prepares all three chains for cfg.
func (p *ModeProcessor) Prepare(cfg core.ProcessorConfig) error {
	p.prepared = false

	for mode, c := range p.chains {
		if err := c.prepare(cfg); err != nil {
			return fmt.Errorf("tone: %v chain: %w", Mode(mode), err)
		}
	}

	p.prepared = true

	return nil
}

// Prepared reports whether Prepare has succeeded.
func (p *ModeProcessor) Prepared() bool { return p.prepared }

// SetMode selects the chain used by Process.
func (p *ModeProcessor) SetMode(mode Mode) { p.mode.Store(int32(mode)) }

// Mode returns the mode used by Process.
func (p *ModeProcessor) Mode() Mode { return Mode(p.mode.Load()) }

// Order returns the stage order of the chain serving mode.
func (p *ModeProcessor) Order(mode Mode) []StageID {
	return StageOrder(mode)
}

// Latency returns the delay in samples the chain for mode currently adds.
func (p *ModeProcessor) Latency(mode Mode) int {
	c := p.chains[chainMode(mode)]
	if c.saturation.Bypassed() {
		return 0
	}

	return c.saturation.Latency()
}

// Process runs the chain for the current mode.
func (p *ModeProcessor) Process(b *buffer.Buffer, params *EngineParameters) {
	p.ProcessMode(b, params, p.Mode())
}

// ProcessMode applies params to the chain for mode, runs its stages in
// order and scales the result by the autoGain. It is a no-op before
// Prepare.
func (p *ModeProcessor) ProcessMode(b *buffer.Buffer, params *EngineParameters, mode Mode) {
	if !p.prepared || params == nil || b == nil {
		return
	}

	mode = chainMode(mode)
	c := p.chains[mode]
	c.setParameters(params)

	for _, id := range c.order {
		if p.observer != nil {
			p.observer(mode, id)
		}

		c.stages[id].Process(b)
	}

	if g := params.OutputAutoGain; math.Abs(g-1) > autoGainEpsilon {
		b.Scale(g)
	}
}

// Reset clears the state of all three chains.
func (p *ModeProcessor) Reset() {
	for _, c := range p.chains {
		c.reset()
	}
}
