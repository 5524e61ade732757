package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	ossignal "os/signal"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/algo-fxchain/dsp/core"
	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/internal/host"
)

const (
	playKeysHelp    = "keys: 1-5 toggle bypass, r random order, d default order, q quit"
	ackPollInterval = 50 * time.Millisecond
)

func runPlay(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cf       chainFlags
		sf       sourceFlags
		latency  = fs.Duration("latency", 100*time.Millisecond, "output buffer length")
		duration = fs.Duration("duration", 0, "stop after this long (default: until q)")
	)

	cf.register(fs)
	sf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	ch, err := buildChain(&cf, stderr)
	if err != nil {
		return err
	}

	spec := ch.cfg.ProcessSpec()
	if err := ch.proc.Prepare(spec); err != nil {
		return err
	}

	src, err := sf.source(core.Format{SampleRate: spec.SampleRate, BlockSize: spec.MaxBlockSize, Channels: spec.NumChannels})
	if err != nil {
		return err
	}

	stream, err := host.NewStream(host.RenderFunc(func(channels [][]float64) {
		src.Render(channels)
		ch.proc.Process(channels)
	}), spec.NumChannels, spec.MaxBlockSize)
	if err != nil {
		return err
	}

	player, err := host.NewPlayer(int(spec.SampleRate), stream, *latency)
	if err != nil {
		return err
	}

	player.Start()

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)

		defer cancel()
	}

	keys := &keyActions{ch: ch, rng: rand.New(rand.NewPCG(sf.seed, sf.seed)), out: stdout}
	fmt.Fprintf(stdout, "%s\r\n%s\r\n", playKeysHelp, keys.status())

	pollCtx, stopPoll := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Go(func() {
		ticker := time.NewTicker(ackPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				keys.poll()
			}
		}
	})

	err = host.NewKeyboard(os.Stdin).Run(ctx, keys.handle)
	if errors.Is(err, host.ErrNotTerminal) {
		ch.logger.Warn("stdin is not a terminal, keyboard control disabled")
		<-ctx.Done()

		err = nil
	}

	stopPoll()
	wg.Wait()

	closeErr := player.Close()

	ch.logger.Info("playback stopped",
		"frames", stream.Frames(),
		"clipped_samples", stream.Clipped(),
		"order", ch.proc.CurrentOrder().String(),
	)

	if err := errors.Join(err, closeErr, player.Err()); err != nil {
		return err
	}

	return ch.saveState(cf.saveState)
}

// keyActions maps key presses to control-thread edits. The keyboard and the
// acknowledgement poller share the controller under mu.
type keyActions struct {
	mu  sync.Mutex
	ch  *chain
	rng *rand.Rand
	out io.Writer
}

func (k *keyActions) handle(key byte) (stop bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case key == 'q' || key == 'Q' || key == 3:
		return true
	case key >= '1' && int(key-'1') < effectchain.NumKinds:
		kind := effectchain.Kind(key - '1')
		id := effectchain.BypassID(kind)

		v, err := k.ch.store.Get(id)
		if err == nil {
			err = k.ch.store.Set(id, 1-v)
		}

		if err != nil {
			k.ch.logger.Error("toggle bypass", "kind", kind.String(), "err", err)
		}
	case key == 'r':
		k.ch.ctl.Randomize(k.rng)
		_ = k.ch.ctl.Submit()
	case key == 'd':
		k.ch.ctl.ResetDefault()
		_ = k.ch.ctl.Submit()
	default:
		return false
	}

	k.ch.ctl.Refresh()
	fmt.Fprintf(k.out, "%s\r\n", k.status())

	return false
}

// poll collects acknowledgements from the audio thread and prints the status
// when the applied order changed.
func (k *keyActions) poll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.ch.ctl.Refresh() {
		fmt.Fprintf(k.out, "%s\r\n", k.status())
	}
}

func (k *keyActions) status() string {
	var bypassed []string

	for _, kind := range effectchain.Kinds() {
		if v, err := k.ch.store.Get(effectchain.BypassID(kind)); err == nil && v >= 0.5 {
			bypassed = append(bypassed, kind.String())
		}
	}

	b := "none"
	if len(bypassed) > 0 {
		b = strings.Join(bypassed, ",")
	}

	return fmt.Sprintf("order %s (applied %s) bypassed %s", k.ch.ctl.Order(), k.ch.ctl.Applied(), b)
}
