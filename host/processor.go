package host

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/dsp/core"
	"github.com/cwbudde/algo-tone/dsp/effects/dynamics"
	"github.com/cwbudde/algo-tone/tone"
	"github.com/cwbudde/algo-tone/tone/preset"
)

// Trim limits for the input and output gain, in dB.
const (
	MinGainDB = -24.0
	MaxGainDB = 24.0
)

// ErrNotPrepared is returned by operations that need a prepared Processor.
var ErrNotPrepared = errors.New("host: processor not prepared")

// Processor runs input trim, the tone engine, the mode chain, output trim
// and the optional output limiter over each block.
type Processor struct {
	log        *logrus.Logger
	engineOpts []tone.EngineOption
	chainOpts  []tone.ModeProcessorOption

	limit     bool
	ceilingDB float64

	macros [tone.NumMacros]atomicFloat
	mode   atomic.Int32

	inputGain  atomicFloat // linear
	outputGain atomicFloat // linear

	presetName atomic.Pointer[string]
	dirty      atomic.Bool

	// Owned by the audio goroutine after Prepare.
	cfg      core.ProcessorConfig
	engine   *tone.Engine
	chain    *tone.ModeProcessor
	limiter  *dynamics.Limiter
	scratch  *buffer.Buffer
	view     buffer.Buffer
	prepared bool
}

// NewProcessor returns an unprepared processor holding the default macros
// in rhythm mode with unity trims.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{log: discardLogger()}
	p.inputGain.Store(1)
	p.outputGain.Store(1)
	p.storeMacros(tone.DefaultMacros())

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.engine = tone.NewEngine(p.engineOpts...)
	p.chain = tone.NewModeProcessor(p.chainOpts...)

	return p
}

// Prepare sizes every stage for sampleRate, blocks of up to maxBlockSize
// samples and numChannels channels, and clears all state.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, numChannels int) error {
	cfg := core.ProcessorConfig{
		SampleRate: sampleRate,
		BlockSize:  maxBlockSize,
		Channels:   numChannels,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("host: prepare: %w", err)
	}

	p.prepared = false

	if err := p.engine.Prepare(cfg); err != nil {
		return fmt.Errorf("host: prepare engine: %w", err)
	}

	if err := p.chain.Prepare(cfg); err != nil {
		return fmt.Errorf("host: prepare chain: %w", err)
	}

	p.limiter = nil
	if p.limit {
		l, err := dynamics.NewLimiter(sampleRate, numChannels)
		if err != nil {
			return fmt.Errorf("host: prepare limiter: %w", err)
		}

		l.SetCeiling(p.ceilingDB)
		p.limiter = l
	}

	p.cfg = cfg
	p.scratch = buffer.New(numChannels, maxBlockSize)
	p.prepared = true

	p.log.WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"block_size":  maxBlockSize,
		"channels":    numChannels,
		"limiter":     p.limit,
	}).Info("processor prepared")

	return nil
}

// Config returns the configuration of the last successful Prepare.
func (p *Processor) Config() core.ProcessorConfig { return p.cfg }

// Reset clears the state of every stage in every chain.
func (p *Processor) Reset() {
	p.chain.Reset()

	if p.limiter != nil {
		p.limiter.Reset()
	}

	p.log.Debug("processor reset")
}

// Process runs one block in place. The mode and macros are sampled once at
// the start. Blocks longer than the prepared size are split. Process is a
// no-op before Prepare.
func (p *Processor) Process(b *buffer.Buffer) {
	if !p.prepared || b == nil {
		return
	}

	n := b.Len()
	if n <= p.cfg.BlockSize {
		p.processBlock(b)
		return
	}

	for start := 0; start < n; start += p.cfg.BlockSize {
		b.ViewInto(&p.view, start, start+p.cfg.BlockSize)
		p.processBlock(&p.view)
	}
}

func (p *Processor) processBlock(b *buffer.Buffer) {
	mode := tone.Mode(p.mode.Load())
	m := p.Macros()

	if g := p.inputGain.Load(); g != 1 {
		b.Scale(g)
	}

	params := p.engine.UpdateBlock(m, mode, b.Len())
	p.chain.ProcessMode(b, params, mode)

	if g := p.outputGain.Load(); g != 1 {
		b.Scale(g)
	}

	if p.limiter != nil {
		p.limiter.Process(b)
	}
}

// ProcessInterleaved runs interleaved float32 frames in place using the
// prepared channel count as the frame width. A trailing partial frame is
// left untouched.
func (p *Processor) ProcessInterleaved(frames []float32) error {
	if !p.prepared {
		return ErrNotPrepared
	}

	nch := p.cfg.Channels
	if len(frames)%nch != 0 {
		p.log.WithField("samples", len(frames)).Debug("partial trailing frame ignored")
	}

	step := p.cfg.BlockSize * nch
	for start := 0; start+nch <= len(frames); start += step {
		end := min(start+step, len(frames)-len(frames)%nch)
		chunk := frames[start:end]

		p.scratch.Deinterleave(chunk)
		p.processBlock(p.scratch)
		p.scratch.Interleave(chunk)
	}

	return nil
}

// SetMacro stores one dial, clamped to [0, 1]. NaN is stored as 0.
func (p *Processor) SetMacro(id tone.MacroID, v float64) {
	if id < 0 || id >= tone.NumMacros {
		return
	}

	p.macros[id].Store(core.ClampFinite(v, 0, 1, 0))
	p.dirty.Store(true)
}

// SetMacros stores all six dials.
func (p *Processor) SetMacros(m tone.Macros) {
	p.storeMacros(m)
	p.dirty.Store(true)
}

func (p *Processor) storeMacros(m tone.Macros) {
	m = m.Clamped()
	for id := range tone.NumMacros {
		p.macros[id].Store(m.Get(id))
	}
}

// Macros returns the current dial positions.
func (p *Processor) Macros() tone.Macros {
	var m tone.Macros
	for id := range tone.NumMacros {
		m.Set(id, p.macros[id].Load())
	}

	return m
}

// SetMode selects the playing mode for the next block. Invalid modes are
// stored as given; the chain runs rhythm for them.
func (p *Processor) SetMode(mode tone.Mode) {
	if prev := tone.Mode(p.mode.Swap(int32(mode))); prev != mode {
		p.dirty.Store(true)
		p.log.WithFields(logrus.Fields{"from": prev, "to": mode}).Debug("mode changed")
	}
}

// Mode returns the mode the next block will use.
func (p *Processor) Mode() tone.Mode { return tone.Mode(p.mode.Load()) }

// ApplyPreset loads the macros and mode of pr and marks the state clean.
func (p *Processor) ApplyPreset(pr preset.Preset) {
	p.storeMacros(pr.Macros)
	p.mode.Store(int32(pr.Mode))

	name := pr.Name
	p.presetName.Store(&name)
	p.dirty.Store(false)

	p.log.WithFields(logrus.Fields{
		"preset": pr.Name,
		"mode":   pr.Mode,
	}).Info("preset applied")
}

// PresetName returns the last applied preset name, or "" if none.
func (p *Processor) PresetName() string {
	if s := p.presetName.Load(); s != nil {
		return *s
	}

	return ""
}

// Dirty reports whether a macro or the mode changed since the last
// ApplyPreset.
func (p *Processor) Dirty() bool { return p.dirty.Load() }

// SetInputGainDB sets the input trim, clamped to [MinGainDB, MaxGainDB].
func (p *Processor) SetInputGainDB(db float64) {
	p.inputGain.Store(core.DBToLinear(core.ClampFinite(db, MinGainDB, MaxGainDB, 0)))
}

// SetOutputGainDB sets the output trim, clamped to [MinGainDB, MaxGainDB].
func (p *Processor) SetOutputGainDB(db float64) {
	p.outputGain.Store(core.DBToLinear(core.ClampFinite(db, MinGainDB, MaxGainDB, 0)))
}

// InputGainDB returns the input trim in dB.
func (p *Processor) InputGainDB() float64 { return linearToDB(p.inputGain.Load()) }

// OutputGainDB returns the output trim in dB.
func (p *Processor) OutputGainDB() float64 { return linearToDB(p.outputGain.Load()) }

func linearToDB(g float64) float64 {
	db := core.LinearToDB(g)
	if math.Abs(db) < 1e-12 {
		return 0
	}

	return db
}

// Parameters returns the most recently published engine parameters. It is
// safe to call from any goroutine.
func (p *Processor) Parameters() tone.EngineParameters {
	return p.engine.Snapshot()
}

// Latency returns the delay in samples the current mode and the limiter
// add.
func (p *Processor) Latency() int {
	n := p.chain.Latency(p.Mode())
	if p.limiter != nil {
		n += p.limiter.Latency()
	}

	return n
}
