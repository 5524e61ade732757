package modulation

import (
	"fmt"
	"math"
)

const (
	// MaxPhaserStages bounds the allpass cascade.
	MaxPhaserStages     = 12
	defaultPhaserStages = 6

	// The sweep runs on a logarithmic axis spanning 20 Hz to 20 kHz.
	phaserSweepLowHz = 20.0
	phaserSweepSpan  = 1000.0
)

// PhaserOption configures [NewPhaser].
type PhaserOption func(*phaserConfig)

type phaserConfig struct {
	params PhaserParams
	stages int
}

// WithPhaserParams sets the initial controls.
func WithPhaserParams(p PhaserParams) PhaserOption {
	return func(cfg *phaserConfig) { cfg.params = p }
}

// WithPhaserStages sets the number of first-order allpass stages in
// [1, MaxPhaserStages].
func WithPhaserStages(n int) PhaserOption {
	return func(cfg *phaserConfig) { cfg.stages = n }
}

// allpass is a first-order allpass section.
type allpass struct {
	x1, y1 float64
}

func (s *allpass) process(x, a float64) float64 {
	y := a*x + s.x1 - a*s.y1
	s.x1 = x
	s.y1 = y

	return y
}

// Phaser is a mono allpass-cascade phaser. A sine LFO sweeps the allpass
// break frequency around the centre on a logarithmic axis:
//
//	f = 20 Hz * 1000^clamp(log1000(fc/20) + depth/2 * sin(phase), 0, 1)
type Phaser struct {
	sampleRate float64
	params     PhaserParams
	centerPos  float64 // log1000(CenterHz/20)

	lfo    lfo
	fbLast float64
	stages []allpass
}

// NewPhaser returns a phaser with [DefaultPhaserParams] and six stages
// unless overridden.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	if err := validSampleRate("phaser", sampleRate); err != nil {
		return nil, err
	}

	cfg := phaserConfig{params: DefaultPhaserParams(), stages: defaultPhaserStages}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.stages < 1 || cfg.stages > MaxPhaserStages {
		return nil, fmt.Errorf("phaser stages must be in [1, %d]: %d", MaxPhaserStages, cfg.stages)
	}

	p := &Phaser{sampleRate: sampleRate, stages: make([]allpass, cfg.stages)}
	if err := p.SetParams(cfg.params); err != nil {
		return nil, err
	}

	return p, nil
}

// SetParams replaces all controls at once. Invalid params leave the phaser
// unchanged. The sweep position and filter history are kept.
func (p *Phaser) SetParams(params PhaserParams) error {
	if err := params.Validate(p.sampleRate); err != nil {
		return err
	}

	p.params = params
	p.centerPos = math.Log(params.CenterHz/phaserSweepLowHz) / math.Log(phaserSweepSpan)
	p.lfo.setRate(params.RateHz, p.sampleRate)

	return nil
}

// Params returns the current controls.
func (p *Phaser) Params() PhaserParams { return p.params }

// Reset clears the allpass history and restarts the sweep.
func (p *Phaser) Reset() {
	clear(p.stages)
	p.fbLast = 0
	p.lfo.reset()
}

// Process filters one sample.
func (p *Phaser) Process(x float64) float64 {
	a := allpassCoefficient(p.sweepHz(), p.sampleRate)

	y := x + p.fbLast*p.params.Feedback
	for i := range p.stages {
		y = p.stages[i].process(y, a)
	}

	p.fbLast = y
	p.lfo.advance(1)

	return x*(1-p.params.Mix) + y*p.params.Mix
}

// ProcessInPlace filters buf in place.
func (p *Phaser) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = p.Process(x)
	}
}

// Advance moves the sweep forward by n samples without touching the audio
// path.
func (p *Phaser) Advance(n int) {
	p.lfo.advance(n)
}

// Phase returns the LFO phase in radians, in [0, 2*pi).
func (p *Phaser) Phase() float64 { return p.lfo.phase }

// SampleRate returns the sample rate in Hz.
func (p *Phaser) SampleRate() float64 { return p.sampleRate }

// Stages returns the number of allpass stages.
func (p *Phaser) Stages() int { return len(p.stages) }

func (p *Phaser) sweepHz() float64 {
	pos := min(max(p.centerPos+0.5*p.params.Depth*p.lfo.value(), 0), 1)

	return phaserSweepLowHz * math.Pow(phaserSweepSpan, pos)
}

func allpassCoefficient(freqHz, sampleRate float64) float64 {
	freqHz = min(max(freqHz, 1), phaserNyquistRatio*sampleRate)

	g := math.Tan(math.Pi * freqHz / sampleRate)

	return (1 - g) / (1 + g)
}
