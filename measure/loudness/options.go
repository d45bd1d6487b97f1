package loudness

import "github.com/cwbudde/algo-tone/dsp/core"

// MeterConfig defines configuration for the loudness meter.
type MeterConfig struct {
	SampleRate float64
	Channels   int
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns a stereo meter at the default sample rate.
func DefaultMeterConfig() MeterConfig {
	d := core.DefaultProcessorConfig()

	return MeterConfig{SampleRate: d.SampleRate, Channels: d.Channels}
}

// WithSampleRate sets the measured sample rate.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 && core.IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChannels sets the number of channels.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithProcessorConfig copies sample rate and channel count from cfg.
func WithProcessorConfig(cfg core.ProcessorConfig) MeterOption {
	return func(m *MeterConfig) {
		WithSampleRate(cfg.SampleRate)(m)
		WithChannels(cfg.Channels)(m)
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
