package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/cwbudde/algo-fxchain/dsp/core"
	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/signal"
	"github.com/cwbudde/algo-fxchain/internal/audioio"
)

type sourceFlags struct {
	wave    string
	freq    float64
	amp     float64
	seed    uint64
	seconds float64
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.wave, "wave", "sine", "generated waveform: sine, saw, noise, sweep or impulse")
	fs.Float64Var(&s.freq, "freq", 440, "generated waveform frequency in Hz")
	fs.Float64Var(&s.amp, "amp", 0.5, "generated waveform amplitude")
	fs.Uint64Var(&s.seed, "seed", 1, "noise seed")
	fs.Float64Var(&s.seconds, "seconds", 2, "generated signal length (render only)")
}

func (s *sourceFlags) source(f core.Format) (*signal.Source, error) {
	w, err := signal.ParseWaveform(s.wave)
	if err != nil {
		return nil, err
	}

	g := signal.NewGenerator([]core.FormatOption{
		core.WithSampleRate(f.SampleRate),
		core.WithBlockSize(f.BlockSize),
		core.WithChannels(f.Channels),
	}, signal.WithSeed(s.seed))

	return g.Source(w, s.freq, s.amp)
}

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cf  chainFlags
		sf  sourceFlags
		in  = fs.String("in", "", "input WAV file (default: generated signal)")
		out = fs.String("out", "", "output WAV file (required)")

		bitDepth     = fs.Int("bit-depth", 0, "output bit depth: 16, 24 or 32 (default: input depth, else 16)")
		reorderEvery = fs.Int("reorder-every", 0, "submit a random order every N blocks from a control goroutine")
		reorderSeed  = fs.Uint64("reorder-seed", 1, "seed for -reorder-every")
	)

	cf.register(fs)
	sf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		return errors.New("-out is required")
	}

	if *reorderEvery < 0 {
		return fmt.Errorf("-reorder-every must be >= 0: %d", *reorderEvery)
	}

	if *bitDepth != 0 {
		if err := audioio.CheckBitDepth(*bitDepth); err != nil {
			return fmt.Errorf("-bit-depth: %w", err)
		}
	}

	ch, err := buildChain(&cf, stderr)
	if err != nil {
		return err
	}

	clip, err := renderInput(*in, &sf, ch)
	if err != nil {
		return err
	}

	if *bitDepth != 0 {
		clip.BitDepth = *bitDepth
	}

	spec := effectchain.ProcessSpec{
		SampleRate:   float64(clip.SampleRate),
		MaxBlockSize: ch.cfg.Audio.BlockSize,
		NumChannels:  len(clip.Channels),
	}

	if err := ch.proc.Prepare(spec); err != nil {
		return err
	}

	reorders := processClip(ch, clip, *reorderEvery, *reorderSeed)

	if err := audioio.WriteFile(*out, clip); err != nil {
		return err
	}

	peak := 0.0
	for _, c := range clip.Channels {
		peak = max(peak, core.Peak(c))
	}

	ch.logger.Info("render complete",
		"out", *out,
		"frames", clip.Frames(),
		"peak_db", core.LinearToDB(peak),
		"rms_db", core.LinearToDB(core.RMS(clip.Channels[0])),
		"order", ch.proc.CurrentOrder().String(),
		"reorders", reorders,
		"dropped_requests", ch.proc.DroppedRequests(),
	)

	fmt.Fprintf(stdout, "%s: %d frames, %d channels, order %s\n", *out, clip.Frames(), len(clip.Channels), ch.proc.CurrentOrder())

	return ch.saveState(cf.saveState)
}

func renderInput(path string, sf *sourceFlags, ch *chain) (*audioio.Clip, error) {
	if path != "" {
		return audioio.ReadFile(path)
	}

	f := ch.cfg.ProcessSpec()
	format := core.Format{SampleRate: f.SampleRate, BlockSize: f.MaxBlockSize, Channels: f.NumChannels}

	if sf.seconds <= 0 {
		return nil, fmt.Errorf("-seconds must be > 0: %g", sf.seconds)
	}

	src, err := sf.source(format)
	if err != nil {
		return nil, err
	}

	clip := audioio.NewClip(int(format.SampleRate), 16, format.Channels, format.Frames(sf.seconds))
	src.Render(clip.Channels)

	return clip, nil
}

// processClip runs the chain over clip block by block. With reorderEvery > 0
// a control goroutine submits a random order every reorderEvery blocks while
// the loop runs. It returns the number of orders submitted.
func processClip(ch *chain, clip *audioio.Clip, reorderEvery int, seed uint64) int {
	ticks := make(chan struct{}, 1)
	submitted := 0

	var wg sync.WaitGroup

	if reorderEvery > 0 {
		wg.Go(func() {
			rng := rand.New(rand.NewPCG(seed, seed))

			for range ticks {
				ch.ctl.Refresh()
				ch.ctl.Randomize(rng)

				if ch.ctl.Submit() == nil {
					submitted++
				}
			}

			ch.ctl.Refresh()
		})
	}

	block := ch.cfg.Audio.BlockSize
	frames := clip.Frames()
	view := make([][]float64, len(clip.Channels))

	for i, start := 0, 0; start < frames; i, start = i+1, start+block {
		end := min(start+block, frames)
		for c := range view {
			view[c] = clip.Channels[c][start:end]
		}

		ch.proc.Process(view)

		if reorderEvery > 0 && (i+1)%reorderEvery == 0 {
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
	}

	close(ticks)
	wg.Wait()

	return submitted
}
