package effectchain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-fxchain/dsp/param"
	"github.com/cwbudde/algo-fxchain/dsp/spsc"
)

// Processor is the block scheduler. The audio thread calls Process; the
// control thread calls RequestOrder and PollAppliedOrder. Every other method
// must not run concurrently with Process.
type Processor struct {
	cfg config

	controls  *controls
	pipelines []*Pipeline

	requests *spsc.Queue[Order]
	acks     *spsc.Queue[Order]

	order    Order
	spec     ProcessSpec
	prepared bool
	logger   *slog.Logger
}

// NewProcessor binds every control of store and creates the order queues.
// Stages are created by Prepare.
func NewProcessor(store *param.Store, opts ...Option) (*Processor, error) {
	if store == nil {
		return nil, errors.New("effectchain: nil parameter store")
	}

	cfg := newConfig(opts)

	if cfg.subBlockSize < 1 || cfg.subBlockSize > MaxSubBlockSize {
		return nil, fmt.Errorf("effectchain: sub-block size must be in [1, %d]: %d", MaxSubBlockSize, cfg.subBlockSize)
	}

	if cfg.rampSeconds < 0 || math.IsNaN(cfg.rampSeconds) || math.IsInf(cfg.rampSeconds, 0) {
		return nil, fmt.Errorf("effectchain: ramp time must be >= 0 and finite: %f", cfg.rampSeconds)
	}

	if !cfg.skipMissing {
		for _, k := range Kinds() {
			if cfg.registry.Lookup(k) == nil {
				return nil, fmt.Errorf("%w: %s", ErrMissingStage, k)
			}
		}
	}

	ctl, err := bindControls(store)
	if err != nil {
		return nil, err
	}

	requests, err := spsc.New[Order](cfg.queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("effectchain: request queue: %w", err)
	}

	acks, err := spsc.New[Order](cfg.queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("effectchain: ack queue: %w", err)
	}

	return &Processor{
		cfg:      cfg,
		controls: ctl,
		requests: requests,
		acks:     acks,
		order:    DefaultOrder(),
		logger:   cfg.logger,
	}, nil
}

// Prepare builds and prepares one pipeline per channel and snaps every
// smoothed control to its live value.
func (p *Processor) Prepare(spec ProcessSpec) error {
	if err := spec.validate(); err != nil {
		return err
	}

	if err := p.controls.reset(spec.SampleRate, p.cfg.rampSeconds); err != nil {
		return err
	}

	pipelines := make([]*Pipeline, spec.NumChannels)

	for ch := range pipelines {
		pl, err := NewPipeline(p.cfg.registry, p.pipelineOptions()...)
		if err != nil {
			return err
		}

		if err := pl.Prepare(spec); err != nil {
			return fmt.Errorf("effectchain: channel %d: %w", ch, err)
		}

		pl.UpdateFromParameters(&p.controls.values)
		pipelines[ch] = pl
	}

	p.pipelines = pipelines
	p.spec = spec
	p.prepared = true

	p.logger.Info("effectchain: prepared",
		"sample_rate", spec.SampleRate,
		"channels", spec.NumChannels,
		"max_block", spec.MaxBlockSize,
		"sub_block", p.cfg.subBlockSize,
		"order", p.order.String(),
	)

	return nil
}

func (p *Processor) pipelineOptions() []Option {
	opts := []Option{WithLogger(p.logger), WithBuildCoefficients(p.cfg.build)}
	if p.cfg.skipMissing {
		opts = append(opts, WithMissingStagesSkipped())
	}

	return opts
}

// Process runs the chain over planar channels in place. Channels beyond the
// prepared count are left untouched. Process does not allocate, lock or log.
func (p *Processor) Process(channels [][]float64) {
	if !p.prepared {
		return
	}

	p.adoptRequestedOrder()
	p.controls.retarget()

	nch := min(len(channels), len(p.pipelines))
	if nch == 0 {
		return
	}

	n := len(channels[0])
	for _, ch := range channels[1:nch] {
		n = min(n, len(ch))
	}

	step := p.cfg.subBlockSize
	values := &p.controls.values

	for start := 0; start < n; start += step {
		end := min(start+step, n)

		p.controls.advance(end - start)

		for ch, pl := range p.pipelines[:nch] {
			pl.UpdateFromParameters(values)
			pl.Process(channels[ch][start:end], p.order)
		}
	}
}

// adoptRequestedOrder drains the request queue and applies the last valid
// order in it. Each adoption is acknowledged; a full ack queue drops the
// acknowledgement.
func (p *Processor) adoptRequestedOrder() {
	var (
		latest Order
		found  bool
	)

	for {
		o, ok := p.requests.Pop()
		if !ok {
			break
		}

		if o.Valid() {
			latest = o
			found = true
		}
	}

	if !found {
		return
	}

	p.order = latest
	p.acks.Push(latest)
}

// RequestOrder asks the audio thread to switch to o. It never blocks.
func (p *Processor) RequestOrder(o Order) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, o)
	}

	if !p.requests.Push(o) {
		return ErrQueueFull
	}

	return nil
}

// PollAppliedOrder drains the acknowledgement queue and returns the most
// recently adopted order, if any.
func (p *Processor) PollAppliedOrder() (Order, bool) {
	var (
		latest Order
		found  bool
	)

	for {
		o, ok := p.acks.Pop()
		if !ok {
			return latest, found
		}

		latest = o
		found = true
	}
}

// CurrentOrder returns the order the audio thread is running.
func (p *Processor) CurrentOrder() Order { return p.order }

// Values returns the control snapshot used by the last sub-block.
func (p *Processor) Values() Values { return p.controls.values }

// Pipeline returns the pipeline for channel ch, or nil.
func (p *Processor) Pipeline(ch int) *Pipeline {
	if ch < 0 || ch >= len(p.pipelines) {
		return nil
	}

	return p.pipelines[ch]
}

// Spec returns the spec passed to the last successful Prepare.
func (p *Processor) Spec() ProcessSpec { return p.spec }

// DroppedRequests returns how many order requests were lost to a full queue.
func (p *Processor) DroppedRequests() uint64 { return p.requests.Dropped() }

// Release resets every stage. The processor can be prepared again.
func (p *Processor) Release() {
	for _, pl := range p.pipelines {
		pl.Reset()
	}
}
