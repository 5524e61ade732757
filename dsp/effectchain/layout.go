package effectchain

import (
	"github.com/cwbudde/algo-fxchain/dsp/filter/design"
	"github.com/cwbudde/algo-fxchain/dsp/filter/ladder"
	"github.com/cwbudde/algo-fxchain/dsp/param"
)

// Control IDs. They are the keys of the parameter store and of persisted
// state, so they must not change.
const (
	IDPhaserRate     = "Phaser RateHz"
	IDPhaserDepth    = "Phaser Depth %"
	IDPhaserCenter   = "Phaser Center FreqHz"
	IDPhaserFeedback = "Phaser Feedback %"
	IDPhaserMix      = "Phaser Mix %"

	IDChorusRate        = "Chorus RateHz"
	IDChorusDepth       = "Chorus Depth %"
	IDChorusCentreDelay = "Chorus Center Delay Ms"
	IDChorusFeedback    = "Chorus Feedback %"
	IDChorusMix         = "Chorus Mix %"

	IDOverdriveSaturation = "OverDrive Saturation"

	IDLadderMode      = "Ladder Filter Mode"
	IDLadderCutoff    = "Ladder Filter Cutoff Hz"
	IDLadderResonance = "Ladder Filter Resonance"
	IDLadderDrive     = "Ladder Filter Drive"

	IDGeneralMode    = "General Filter Mode"
	IDGeneralFreq    = "General Filter Freq Hz"
	IDGeneralQuality = "General Filter Quality"
	IDGeneralGain    = "General Filter Gain"
)

// BypassID returns the ID of the bypass switch for k.
func BypassID(k Kind) string {
	return bypassIDs[k]
}

var bypassIDs = [NumKinds]string{
	"Phaser Bypass",
	"Chorus Bypass",
	"OverDrive Bypass",
	"Ladder Filter Bypass",
	"General Filter Bypass",
}

// Layout returns the specs of every control the processor reads.
func Layout() []param.Spec {
	specs := []param.Spec{
		param.Float(IDPhaserRate, "Hz", 0.01, 2, 0.01, 0.2),
		param.Float(IDPhaserDepth, "%", 0.01, 1, 0.01, 0.05),
		param.Float(IDPhaserCenter, "Hz", 20, 20000, 1, 1000),
		param.Float(IDPhaserFeedback, "%", -1, 1, 0.01, 0),
		param.Float(IDPhaserMix, "%", 0.01, 1, 0.01, 0.05),

		param.Float(IDChorusRate, "Hz", 0.01, 100, 0.01, 0.2),
		param.Float(IDChorusDepth, "%", 0.01, 1, 0.01, 0.05),
		param.Float(IDChorusCentreDelay, "ms", 1, 100, 0.1, 7),
		param.Float(IDChorusFeedback, "%", -1, 1, 0.01, 0),
		param.Float(IDChorusMix, "%", 0.01, 1, 0.01, 0.05),

		param.Float(IDOverdriveSaturation, "", 1, 100, 0.1, 1),

		param.Choice(IDLadderMode, ladder.ModeNames[:], int(ladder.ModeLPF12)),
		param.Float(IDLadderCutoff, "Hz", 20, 20000, 0.1, 20000),
		param.Float(IDLadderResonance, "", 0, 1, 0.01, 0),
		param.Float(IDLadderDrive, "", 1, 100, 0.1, 1),

		param.Choice(IDGeneralMode, design.ModeNames, int(design.ModePeak)),
		param.Float(IDGeneralFreq, "Hz", 20, 20000, 1, 750),
		param.Float(IDGeneralQuality, "", 0.1, 10, 0.05, 1),
		param.Float(IDGeneralGain, "dB", -24, 24, 0.5, 0),
	}

	for _, id := range bypassIDs {
		specs = append(specs, param.Bool(id, false))
	}

	return specs
}

// NewParameterStore returns a store holding [Layout] at its defaults.
func NewParameterStore() (*param.Store, error) {
	return param.NewStore(Layout()...)
}
