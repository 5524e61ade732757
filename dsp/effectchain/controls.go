package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fxchain/dsp/filter/design"
	"github.com/cwbudde/algo-fxchain/dsp/filter/ladder"
	"github.com/cwbudde/algo-fxchain/dsp/param"
	"github.com/cwbudde/algo-fxchain/dsp/smoother"
)

// smoothedControl ramps one continuous control into its Values field.
type smoothedControl struct {
	handle param.Handle
	ramp   smoother.Smoother
	dst    *float64
}

// controls binds the parameter store to a Values snapshot. It is owned by
// the audio thread after Prepare.
type controls struct {
	values Values

	smoothed    []smoothedControl
	ladderMode  param.Handle
	generalMode param.Handle
	bypass      [NumKinds]param.Handle
}

func bindControls(store *param.Store) (*controls, error) {
	c := &controls{}
	v := &c.values

	continuous := []struct {
		id  string
		dst *float64
	}{
		{IDPhaserRate, &v.Phaser.RateHz},
		{IDPhaserDepth, &v.Phaser.Depth},
		{IDPhaserCenter, &v.Phaser.CenterHz},
		{IDPhaserFeedback, &v.Phaser.Feedback},
		{IDPhaserMix, &v.Phaser.Mix},
		{IDChorusRate, &v.Chorus.RateHz},
		{IDChorusDepth, &v.Chorus.Depth},
		{IDChorusCentreDelay, &v.Chorus.CentreDelayMs},
		{IDChorusFeedback, &v.Chorus.Feedback},
		{IDChorusMix, &v.Chorus.Mix},
		{IDOverdriveSaturation, &v.OverdriveSaturation},
		{IDLadderCutoff, &v.Ladder.CutoffHz},
		{IDLadderResonance, &v.Ladder.Resonance},
		{IDLadderDrive, &v.Ladder.Drive},
		{IDGeneralFreq, &v.GeneralFilter.FreqHz},
		{IDGeneralQuality, &v.GeneralFilter.Q},
		{IDGeneralGain, &v.GeneralFilter.GainDB},
	}

	c.smoothed = make([]smoothedControl, len(continuous))

	for i, ctl := range continuous {
		h, err := store.Handle(ctl.id)
		if err != nil {
			return nil, fmt.Errorf("effectchain: bind controls: %w", err)
		}

		c.smoothed[i] = smoothedControl{handle: h, dst: ctl.dst}
	}

	var err error
	if c.ladderMode, err = store.Handle(IDLadderMode); err != nil {
		return nil, fmt.Errorf("effectchain: bind controls: %w", err)
	}

	if c.generalMode, err = store.Handle(IDGeneralMode); err != nil {
		return nil, fmt.Errorf("effectchain: bind controls: %w", err)
	}

	for k := range c.bypass {
		if c.bypass[k], err = store.Handle(bypassIDs[k]); err != nil {
			return nil, fmt.Errorf("effectchain: bind controls: %w", err)
		}
	}

	return c, nil
}

// reset prepares every ramp for sampleRate and snaps it to the live value.
func (c *controls) reset(sampleRate, rampSeconds float64) error {
	for i := range c.smoothed {
		sc := &c.smoothed[i]
		if err := sc.ramp.Reset(sampleRate, rampSeconds); err != nil {
			return fmt.Errorf("effectchain: %w", err)
		}

		sc.ramp.SetCurrentAndTargetValue(sc.handle.Value())
		*sc.dst = sc.ramp.CurrentValue()
	}

	c.decodeDiscrete()

	return nil
}

// retarget points every ramp at the live value and latches the discrete
// controls, so one callback sees a single snapshot of the store.
func (c *controls) retarget() {
	for i := range c.smoothed {
		c.smoothed[i].ramp.SetTargetValue(c.smoothed[i].handle.Value())
	}

	c.decodeDiscrete()
}

// advance moves every ramp n samples forward.
func (c *controls) advance(n int) {
	for i := range c.smoothed {
		sc := &c.smoothed[i]
		*sc.dst = sc.ramp.Skip(n)
	}
}

func (c *controls) decodeDiscrete() {
	v := &c.values
	v.Ladder.Mode = ladder.Mode(c.ladderMode.Index())
	v.GeneralFilter.Mode = design.Mode(c.generalMode.Index())

	for k := range c.bypass {
		v.Bypassed[k] = c.bypass[k].On()
	}
}
