package tone

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-tone/dsp/core"
)

const defaultSmoothingSeconds = 0.02

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	smoothing        bool
	smoothingSeconds float64
}

// WithSmoothing enables per-block linear ramps on the continuous
// parameters. Off by default: mapped values then apply at once.
func WithSmoothing(enabled bool) EngineOption {
	return func(cfg *engineConfig) {
		cfg.smoothing = enabled
	}
}

// WithSmoothingTime sets the ramp duration in seconds.
func WithSmoothingTime(seconds float64) EngineOption {
	return func(cfg *engineConfig) {
		if seconds >= 0 && core.IsFinite(seconds) {
			cfg.smoothingSeconds = seconds
		}
	}
}

// Engine maps macros and mode into EngineParameters, computes autoGain and
// publishes a snapshot for inspection.
//
// Update is called from the audio goroutine only. Snapshot and Mode are
// safe from any goroutine; publishing never blocks Update.
type Engine struct {
	cfg   engineConfig
	block int

	current EngineParameters
	mode    atomic.Int32

	smoothers [numSmoothed]Smoother
	primed    bool

	mu        sync.Mutex
	published EngineParameters
}

// NewEngine returns an engine holding neutral parameters.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{smoothingSeconds: defaultSmoothingSeconds}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &Engine{cfg: cfg, block: core.DefaultProcessorConfig().BlockSize}
	e.current = initialParameters()
	e.published = e.current

	sr := core.DefaultProcessorConfig().SampleRate
	for i := range e.smoothers {
		e.smoothers[i].Reset(sr, cfg.smoothingSeconds)
	}

	return e
}

// initialParameters is the neutral state before the first Update: flat
// EQ, bypassed dynamics, zero saturation mix and a dry spatial stage.
func initialParameters() EngineParameters {
	p := DefaultEngineParameters()

	p.EQ.LowCutFreq = 80
	p.EQ.LowShelfFreq = 100
	p.EQ.Mid1Freq = 1000
	p.EQ.Mid2Freq = 2000

	p.Dynamics.CompThreshold = 0
	p.Dynamics.CompRatio = 1
	p.Dynamics.DeesserFreq = 5000
	p.Dynamics.DeesserRatio = 1

	p.Saturation.Drive = 0.5
	p.Saturation.Mix = 0

	p.Spatial.ReverbSize = 0
	p.Spatial.DelayTimeLeft = 0
	p.Spatial.DelayTimeRight = 0
	p.Spatial.DelayFeedback = 0
	p.Spatial.ChorusRate = 0
	p.Spatial.ChorusDepth = 0

	return p
}

// Prepare sets the sample rate and block size used for smoothing ramps.
func (e *Engine) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.block = cfg.BlockSize
	for i := range e.smoothers {
		e.smoothers[i].Reset(cfg.SampleRate, e.cfg.smoothingSeconds)
	}

	e.primed = false

	return nil
}

// Smoothing reports whether parameter ramps are enabled.
func (e *Engine) Smoothing() bool { return e.cfg.smoothing }

// Mode returns the mode of the last Update.
func (e *Engine) Mode() Mode { return Mode(e.mode.Load()) }

// Update maps m and mode for one block of the prepared block size.
func (e *Engine) Update(m Macros, mode Mode) *EngineParameters {
	return e.UpdateBlock(m, mode, e.block)
}

// UpdateBlock maps m and mode, advances smoothing by n samples, computes
// autoGain and publishes the result. The returned pointer stays owned by
// the engine and is overwritten by the next update.
func (e *Engine) UpdateBlock(m Macros, mode Mode, n int) *EngineParameters {
	e.mode.Store(int32(mode))

	next := MapAll(m, mode)
	if e.cfg.smoothing {
		e.smooth(&next, n)
	}

	next.OutputAutoGain = AutoGain(&next)
	e.current = next

	if e.mu.TryLock() {
		e.published = e.current
		e.mu.Unlock()
	}

	return &e.current
}

// Snapshot returns a copy of the most recently published parameters.
func (e *Engine) Snapshot() EngineParameters {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.published
}
