// Command tonesauce renders audio through the macro tone engine.
//
// Usage:
//
//	tonesauce [flags]
//
// Without -in it renders a test signal. Macros not given on the command
// line come from the preset, or sit at their defaults.
//
// Examples:
//
//	tonesauce -in dry.wav -out wet.wav -preset "Lead Air"
//	tonesauce -in dry.wav -out wet.wav -mode clean -space 0.6 -report
//	tonesauce -in dry.wav -automate sweep.lua -out swept.wav
//	tonesauce -in dry.wav -play -mode rhythm -character 0.7
//	tonesauce -in dry.wav -out hot.wav -output-gain 12 -limiter -ceiling -1
//	tonesauce -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tone/host"
	"github.com/cwbudde/algo-tone/internal/wav"
	"github.com/cwbudde/algo-tone/tone"
	"github.com/cwbudde/algo-tone/tone/preset"
)

type options struct {
	in, out    string
	format     string
	presetName string
	mode       string
	macros     [tone.NumMacros]float64
	inGain     float64
	outGain    float64
	limiter    bool
	ceiling    float64
	block      int
	smooth     bool
	automate   string
	play       bool
	report     bool
	list       bool
	verbose    bool
	toneSecs   float64
	toneRate   int
}

func parseFlags(args []string) (*options, error) {
	o := &options{}

	fs := flag.NewFlagSet("tonesauce", flag.ContinueOnError)
	fs.StringVar(&o.in, "in", "", "input WAV file (default: generated test signal)")
	fs.StringVar(&o.out, "out", "", "output WAV file")
	fs.StringVar(&o.format, "format", "", "output encoding: pcm16, pcm24, float32 (default: input encoding)")
	fs.StringVar(&o.presetName, "preset", "", "factory preset name")
	fs.StringVar(&o.mode, "mode", "", "mode: rhythm, lead, clean")

	for id := range tone.NumMacros {
		fs.Float64Var(&o.macros[id], id.String(), math.NaN(), fmt.Sprintf("%s macro in [0, 1]", id))
	}

	fs.Float64Var(&o.inGain, "input-gain", 0, "input trim in dB")
	fs.Float64Var(&o.outGain, "output-gain", 0, "output trim in dB")
	fs.BoolVar(&o.limiter, "limiter", false, "enable the output limiter")
	fs.Float64Var(&o.ceiling, "ceiling", -0.3, "output limiter ceiling in dBFS")
	fs.IntVar(&o.block, "block", 512, "processing block size in samples")
	fs.BoolVar(&o.smooth, "smooth", false, "ramp parameter changes across blocks")
	fs.StringVar(&o.automate, "automate", "", "Lua automation script")
	fs.BoolVar(&o.play, "play", false, "play the result on the default audio device")
	fs.BoolVar(&o.report, "report", false, "print loudness and spectrum of input and output")
	fs.BoolVar(&o.list, "list", false, "list factory presets")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Float64Var(&o.toneSecs, "tone-seconds", 4, "length of the generated test signal")
	fs.IntVar(&o.toneRate, "tone-rate", 48000, "sample rate of the generated test signal")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tonesauce [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Renders audio through the macro tone engine.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if o.block <= 0 {
		return nil, fmt.Errorf("block size %d must be positive", o.block)
	}

	return o, nil
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		log.WithError(err).Error("invalid arguments")
		os.Exit(2)
	}

	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(o, log); err != nil {
		log.WithError(err).Error("tonesauce failed")
		os.Exit(1)
	}
}

func run(o *options, log *logrus.Logger) error {
	if o.list {
		for i, name := range preset.Names() {
			p, _ := preset.ByIndex(i)
			fmt.Printf("%-14s %-7s %+v\n", name, p.Mode, p.Macros)
		}

		return nil
	}

	src, err := loadInput(o)
	if err != nil {
		return err
	}

	proc, err := newProcessor(o, src, log)
	if err != nil {
		return err
	}

	var auto *automation
	if o.automate != "" {
		auto, err = loadAutomation(o.automate, proc, log)
		if err != nil {
			return err
		}
		defer auto.Close()
	}

	if o.play {
		return play(src, proc, auto, o.block, log)
	}

	out, err := render(src, proc, auto, o.block, newProgress(os.Stderr))
	if err != nil {
		return err
	}

	if o.report {
		printReport(os.Stdout, src, out)
	}

	if o.out == "" {
		log.Warn("no -out given, result discarded")
		return nil
	}

	return saveOutput(o, out, log)
}

// newProcessor builds and prepares the host processor from the flags.
func newProcessor(o *options, src *wav.Audio, log *logrus.Logger) (*host.Processor, error) {
	opts := []host.Option{
		host.WithLogger(log),
		host.WithInputGainDB(o.inGain),
		host.WithOutputGainDB(o.outGain),
		host.WithEngineOptions(tone.WithSmoothing(o.smooth)),
	}

	if o.limiter {
		opts = append(opts, host.WithLimiter(o.ceiling))
	}

	proc := host.NewProcessor(opts...)

	if err := proc.Prepare(float64(src.SampleRate), o.block, src.Channels); err != nil {
		return nil, err
	}

	if o.presetName != "" {
		p, err := preset.Lookup(o.presetName)
		if err != nil {
			return nil, err
		}

		proc.ApplyPreset(p)
	}

	if o.mode != "" {
		mode, err := tone.ParseMode(o.mode)
		if err != nil {
			return nil, err
		}

		proc.SetMode(mode)
	}

	for id, v := range o.macros {
		if !math.IsNaN(v) {
			proc.SetMacro(tone.MacroID(id), v)
		}
	}

	log.WithFields(logrus.Fields{
		"preset":      proc.PresetName(),
		"mode":        proc.Mode(),
		"macros":      fmt.Sprintf("%+v", proc.Macros()),
		"sample_rate": src.SampleRate,
		"channels":    src.Channels,
	}).Info("engine ready")

	return proc, nil
}

func loadInput(o *options) (*wav.Audio, error) {
	if o.in == "" {
		return testSignal(o.toneRate, o.toneSecs), nil
	}

	f, err := os.Open(o.in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := wav.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.in, err)
	}

	return a, nil
}

func saveOutput(o *options, out *wav.Audio, log *logrus.Logger) error {
	if o.format != "" {
		f, err := wav.ParseFormat(o.format)
		if err != nil {
			return err
		}

		out.Format = f
	}

	f, err := os.Create(o.out)
	if err != nil {
		return err
	}

	if err := wav.Write(f, out); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"file": o.out, "frames": out.Frames()}).Info("written")

	return nil
}
