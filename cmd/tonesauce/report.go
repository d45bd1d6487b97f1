package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-tone/dsp/buffer"
	"github.com/cwbudde/algo-tone/internal/wav"
	"github.com/cwbudde/algo-tone/measure/loudness"
	"github.com/cwbudde/algo-tone/measure/spectrum"
)

const reportFFTSize = 4096

type analysis struct {
	loud     loudness.Report
	profile  spectrum.Profile
	centroid float64
}

func analyze(a *wav.Audio) (analysis, error) {
	b := buffer.New(a.Channels, a.Frames())
	b.Deinterleave(a.Samples)

	res := analysis{loud: loudness.Measure(b, float64(a.SampleRate))}

	an, err := spectrum.NewAnalyzer(reportFFTSize, float64(a.SampleRate))
	if err != nil {
		return res, err
	}

	// Average the channels before the spectrum.
	mono := make([]float64, b.Len())
	for ch := range b.NumChannels() {
		for i, v := range b.Channel(ch) {
			mono[i] += v / float64(b.NumChannels())
		}
	}

	mag, err := an.Average(mono)
	if err != nil {
		return res, err
	}

	res.profile = an.Profile(mag, spectrum.ToneBands)
	res.centroid = an.Centroid(mag)

	return res, nil
}

func printReport(w io.Writer, in, out *wav.Audio) {
	before, err := analyze(in)
	if err != nil {
		fmt.Fprintf(w, "report: %v\n", err)
		return
	}

	after, err := analyze(out)
	if err != nil {
		fmt.Fprintf(w, "report: %v\n", err)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tinput\toutput\tdelta\t")
	row := func(name, unit string, a, b float64) {
		fmt.Fprintf(tw, "%s\t%.1f %s\t%.1f %s\t%+.1f\t\n", name, a, unit, b, unit, b-a)
	}

	row("integrated", "LUFS", before.loud.Integrated, after.loud.Integrated)
	row("max short-term", "LUFS", before.loud.MaxShortTerm, after.loud.MaxShortTerm)
	row("peak", "dBFS", before.loud.PeakDB, after.loud.PeakDB)
	row("centroid", "Hz", before.centroid, after.centroid)

	for i, band := range spectrum.ToneBands {
		row(band.Name, "dB", before.profile.Levels[i], after.profile.Levels[i])
	}

	tw.Flush()
}
