package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/measure/response"
)

func runResponse(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("response", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cf      chainFlags
		fftSize = fs.Int("fft", 8192, "FFT size (power of two)")
		points  = fs.Int("points", 31, "number of log-spaced frequencies to print")
		lo      = fs.Float64("lo", 20, "lowest printed frequency in Hz")
		hi      = fs.Float64("hi", 20000, "highest printed frequency in Hz")
	)

	cf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *points < 2 || *lo <= 0 || *hi <= *lo {
		return fmt.Errorf("need -points >= 2 and 0 < -lo < -hi")
	}

	ch, err := buildChain(&cf, stderr)
	if err != nil {
		return err
	}

	sr := ch.cfg.Audio.SampleRate
	spec := effectchain.ProcessSpec{SampleRate: sr, MaxBlockSize: ch.cfg.Audio.BlockSize, NumChannels: 1}

	if err := ch.proc.Prepare(spec); err != nil {
		return err
	}

	res, err := response.Measure(ch.proc, sr, response.WithFFTSize(*fftSize), response.WithBlockSize(spec.MaxBlockSize))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\t\n")

	hiHz := min(*hi, sr/2)
	ratio := math.Pow(hiHz / *lo, 1/float64(*points-1))

	for i, f := 0, *lo; i < *points; i, f = i+1, f*ratio {
		fmt.Fprintf(tw, "%.1f\t%.2f\t\n", f, res.At(f))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "order %s\n", ch.proc.CurrentOrder())

	return ch.saveState(cf.saveState)
}
