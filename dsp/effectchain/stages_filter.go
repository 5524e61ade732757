package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fxchain/dsp/core"
	"github.com/cwbudde/algo-fxchain/dsp/effects"
	"github.com/cwbudde/algo-fxchain/dsp/filter/biquad"
	"github.com/cwbudde/algo-fxchain/dsp/filter/design"
	"github.com/cwbudde/algo-fxchain/dsp/filter/ladder"
)

type overdriveStage struct {
	fx *effects.Overdrive
}

func newOverdriveStage(_ Context) (Stage, error) {
	return &overdriveStage{}, nil
}

func (s *overdriveStage) Prepare(_ ProcessSpec) error {
	fx, err := effects.NewOverdrive(effects.MinOverdriveDrive)
	if err != nil {
		return fmt.Errorf("effectchain: overdrive: %w", err)
	}

	s.fx = fx

	return nil
}

func (s *overdriveStage) Update(v *Values) {
	if s.fx != nil {
		_ = s.fx.SetDrive(core.Clamp(v.OverdriveSaturation, effects.MinOverdriveDrive, effects.MaxOverdriveDrive))
	}
}

func (s *overdriveStage) Process(block []float64, bypassed bool) {
	if s.fx == nil || bypassed {
		return
	}

	s.fx.ProcessInPlace(block)
}

// Reset is a no-op: the saturator is memoryless.
func (s *overdriveStage) Reset() {}

type ladderStage struct {
	fx *ladder.Filter
}

func newLadderStage(_ Context) (Stage, error) {
	return &ladderStage{}, nil
}

func (s *ladderStage) Prepare(spec ProcessSpec) error {
	fx, err := ladder.New(spec.SampleRate, ladder.WithCutoffHz(min(1000, ladder.MaxCutoffHz(spec.SampleRate))))
	if err != nil {
		return fmt.Errorf("effectchain: ladder filter: %w", err)
	}

	s.fx = fx

	return nil
}

func (s *ladderStage) Update(v *Values) {
	if s.fx == nil {
		return
	}

	l := v.Ladder
	if l.Mode.Valid() {
		_ = s.fx.SetMode(l.Mode)
	}

	_ = s.fx.SetCutoffHz(core.Clamp(l.CutoffHz, 20, ladder.MaxCutoffHz(s.fx.SampleRate())))
	_ = s.fx.SetResonance(core.Clamp(l.Resonance, 0, 1))
	_ = s.fx.SetDrive(core.Clamp(l.Drive, ladder.MinDrive, ladder.MaxDrive))
}

func (s *ladderStage) Process(block []float64, bypassed bool) {
	if s.fx == nil || bypassed {
		return
	}

	s.fx.ProcessInPlace(block)
}

func (s *ladderStage) Reset() {
	if s.fx != nil {
		s.fx.Reset()
	}
}

// generalFilterMaxRatio keeps the design frequency below Nyquist at any
// sample rate.
const generalFilterMaxRatio = 0.49

// filterSettings is the tuple the general filter's coefficients depend on.
type filterSettings struct {
	mode            design.Mode
	freqHz, q, gain float64
}

// generalFilterStage rebuilds its biquad only when the settings change. A
// rebuild clears the section history; an unusable design is dropped and the
// previous coefficients stay in place.
type generalFilterStage struct {
	build      CoefficientBuilder
	section    biquad.Section
	sampleRate float64

	last     filterSettings
	haveLast bool
}

func newGeneralFilterStage(ctx Context) (Stage, error) {
	build := ctx.BuildCoefficients
	if build == nil {
		build = design.Design
	}

	return &generalFilterStage{build: build}, nil
}

func (s *generalFilterStage) Prepare(spec ProcessSpec) error {
	s.sampleRate = spec.SampleRate
	s.section = biquad.Section{Coefficients: biquad.Coefficients{B0: 1}}
	s.haveLast = false

	return nil
}

func (s *generalFilterStage) Update(v *Values) {
	g := v.GeneralFilter

	next := filterSettings{
		mode:   g.Mode,
		freqHz: core.Clamp(g.FreqHz, 20, generalFilterMaxRatio*s.sampleRate),
		q:      g.Q,
		gain:   g.GainDB,
	}
	if s.haveLast && next == s.last {
		return
	}

	s.last = next
	s.haveLast = true

	c := s.build(next.mode, next.freqHz, next.q, next.gain, s.sampleRate)
	if !c.Usable() {
		return
	}

	s.section.SetCoefficients(c)
	s.section.Reset()
}

func (s *generalFilterStage) Process(block []float64, bypassed bool) {
	if bypassed {
		return
	}

	s.section.ProcessBlock(block)
}

func (s *generalFilterStage) Reset() {
	s.section.Reset()
}
