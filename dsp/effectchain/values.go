package effectchain

import (
	"github.com/cwbudde/algo-fxchain/dsp/filter/design"
	"github.com/cwbudde/algo-fxchain/dsp/filter/ladder"
)

// PhaserValues are the phaser controls. Depth and Mix are in [0, 1].
type PhaserValues struct {
	RateHz, Depth, CenterHz, Feedback, Mix float64
}

// ChorusValues are the chorus controls.
type ChorusValues struct {
	RateHz, Depth, CentreDelayMs, Feedback, Mix float64
}

// LadderValues are the ladder filter controls.
type LadderValues struct {
	Mode                       ladder.Mode
	CutoffHz, Resonance, Drive float64
}

// GeneralFilterValues are the general filter controls.
type GeneralFilterValues struct {
	Mode              design.Mode
	FreqHz, Q, GainDB float64
}

// Values is the audio thread's snapshot of smoothed control values, decoded
// modes and bypass flags. It is written once per sub-block and read by every
// channel pipeline.
type Values struct {
	Phaser              PhaserValues
	Chorus              ChorusValues
	OverdriveSaturation float64
	Ladder              LadderValues
	GeneralFilter       GeneralFilterValues

	Bypassed [NumKinds]bool
}
