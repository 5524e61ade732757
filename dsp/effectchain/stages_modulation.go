package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fxchain/dsp/core"
	"github.com/cwbudde/algo-fxchain/dsp/effects/modulation"
)

type phaserStage struct {
	fx *modulation.Phaser
}

func newPhaserStage(_ Context) (Stage, error) {
	return &phaserStage{}, nil
}

func (s *phaserStage) Prepare(spec ProcessSpec) error {
	fx, err := modulation.NewPhaser(spec.SampleRate)
	if err != nil {
		return fmt.Errorf("effectchain: phaser: %w", err)
	}

	s.fx = fx

	return nil
}

func (s *phaserStage) Update(v *Values) {
	if s.fx == nil {
		return
	}

	p := v.Phaser
	_ = s.fx.SetParams(modulation.PhaserParams{
		RateHz:   max(p.RateHz, 0.01),
		Depth:    core.Clamp(p.Depth, 0, 1),
		CenterHz: core.Clamp(p.CenterHz, 20, modulation.MaxCenterHz(s.fx.SampleRate())),
		Feedback: core.Clamp(p.Feedback, -modulation.MaxFeedback, modulation.MaxFeedback),
		Mix:      core.Clamp(p.Mix, 0, 1),
	})
}

// Process keeps the LFO running while bypassed so the sweep does not jump
// back when the stage is re-enabled.
func (s *phaserStage) Process(block []float64, bypassed bool) {
	if s.fx == nil {
		return
	}

	if bypassed {
		s.fx.Advance(len(block))
		return
	}

	s.fx.ProcessInPlace(block)
}

func (s *phaserStage) Reset() {
	if s.fx != nil {
		s.fx.Reset()
	}
}

type chorusStage struct {
	fx *modulation.Chorus
}

func newChorusStage(_ Context) (Stage, error) {
	return &chorusStage{}, nil
}

func (s *chorusStage) Prepare(spec ProcessSpec) error {
	fx, err := modulation.NewChorus(spec.SampleRate, modulation.DefaultChorusParams())
	if err != nil {
		return fmt.Errorf("effectchain: chorus: %w", err)
	}

	s.fx = fx

	return nil
}

func (s *chorusStage) Update(v *Values) {
	if s.fx == nil {
		return
	}

	c := v.Chorus
	_ = s.fx.SetParams(modulation.ChorusParams{
		RateHz:        max(c.RateHz, 0.01),
		Depth:         core.Clamp(c.Depth, 0, 1),
		CentreDelayMs: core.Clamp(c.CentreDelayMs, 1, modulation.MaxChorusCentreDelayMs),
		Feedback:      core.Clamp(c.Feedback, -modulation.MaxFeedback, modulation.MaxFeedback),
		Mix:           core.Clamp(c.Mix, 0, 1),
	})
}

// Process feeds the delay line while bypassed so re-enabling the chorus
// does not replay stale audio.
func (s *chorusStage) Process(block []float64, bypassed bool) {
	if s.fx == nil {
		return
	}

	if bypassed {
		s.fx.Track(block)
		return
	}

	s.fx.ProcessInPlace(block)
}

func (s *chorusStage) Reset() {
	if s.fx != nil {
		s.fx.Reset()
	}
}
