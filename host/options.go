package host

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tone/tone"
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger for lifecycle events. The default discards
// everything.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithEngineOptions passes options to the tone engine.
func WithEngineOptions(opts ...tone.EngineOption) Option {
	return func(p *Processor) {
		p.engineOpts = append(p.engineOpts, opts...)
	}
}

// WithModeProcessorOptions passes options to the mode processor.
func WithModeProcessorOptions(opts ...tone.ModeProcessorOption) Option {
	return func(p *Processor) {
		p.chainOpts = append(p.chainOpts, opts...)
	}
}

// WithInputGainDB sets the initial input trim in dB.
func WithInputGainDB(db float64) Option {
	return func(p *Processor) {
		p.SetInputGainDB(db)
	}
}

// WithOutputGainDB sets the initial output trim in dB.
func WithOutputGainDB(db float64) Option {
	return func(p *Processor) {
		p.SetOutputGainDB(db)
	}
}

// WithLimiter enables the output limiter with a ceiling in dBFS. It runs
// after the output trim and adds 3 ms of latency.
func WithLimiter(ceilingDB float64) Option {
	return func(p *Processor) {
		p.limit = true
		p.ceilingDB = ceilingDB
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
