package modulation

import (
	"fmt"
	"math"
)

const (
	// MaxFeedback bounds the feedback magnitude of both effects.
	MaxFeedback = 0.99
	// MaxChorusCentreDelayMs is the largest accepted chorus centre delay.
	MaxChorusCentreDelayMs = 100.0
	// ChorusDepthRangeMs is the delay swing at depth 1.
	ChorusDepthRangeMs = 20.0

	phaserNyquistRatio = 0.49
)

// PhaserParams are the live controls of a [Phaser].
type PhaserParams struct {
	RateHz   float64 // LFO rate, > 0
	Depth    float64 // sweep depth in [0, 1]
	CenterHz float64 // sweep centre, below 0.49 of the sample rate
	Feedback float64 // in [-MaxFeedback, MaxFeedback]
	Mix      float64 // wet amount in [0, 1]
}

// DefaultPhaserParams returns a moderate sweep around 1 kHz.
func DefaultPhaserParams() PhaserParams {
	return PhaserParams{RateHz: 0.2, Depth: 0.5, CenterHz: 1000, Mix: 0.5}
}

// Validate checks p against sampleRate.
func (p PhaserParams) Validate(sampleRate float64) error {
	switch {
	case !positiveFinite(p.RateHz):
		return fmt.Errorf("phaser rate must be > 0 and finite: %f", p.RateHz)
	case !inUnit(p.Depth):
		return fmt.Errorf("phaser depth must be in [0, 1]: %f", p.Depth)
	case !positiveFinite(p.CenterHz) || p.CenterHz >= phaserNyquistRatio*sampleRate:
		return fmt.Errorf("phaser center frequency must be in (0, %.2f) Hz: %f", phaserNyquistRatio*sampleRate, p.CenterHz)
	case !feedbackOK(p.Feedback):
		return fmt.Errorf("phaser feedback must be in [-%.2f, %.2f]: %f", MaxFeedback, MaxFeedback, p.Feedback)
	case !inUnit(p.Mix):
		return fmt.Errorf("phaser mix must be in [0, 1]: %f", p.Mix)
	}

	return nil
}

// MaxCenterHz returns the largest phaser centre frequency accepted at
// sampleRate.
func MaxCenterHz(sampleRate float64) float64 {
	return math.Nextafter(phaserNyquistRatio*sampleRate, 0)
}

// ChorusParams are the live controls of a [Chorus].
type ChorusParams struct {
	RateHz        float64 // LFO rate, > 0
	Depth         float64 // delay swing in [0, 1] of ChorusDepthRangeMs
	CentreDelayMs float64 // in (0, MaxChorusCentreDelayMs]
	Feedback      float64 // in [-MaxFeedback, MaxFeedback]
	Mix           float64 // wet amount in [0, 1]
}

// DefaultChorusParams returns a light ensemble setting.
func DefaultChorusParams() ChorusParams {
	return ChorusParams{RateHz: 0.35, Depth: 0.3, CentreDelayMs: 7, Mix: 0.5}
}

// Validate checks p.
func (p ChorusParams) Validate() error {
	switch {
	case !positiveFinite(p.RateHz):
		return fmt.Errorf("chorus rate must be > 0 and finite: %f", p.RateHz)
	case !inUnit(p.Depth):
		return fmt.Errorf("chorus depth must be in [0, 1]: %f", p.Depth)
	case !(p.CentreDelayMs > 0 && p.CentreDelayMs <= MaxChorusCentreDelayMs):
		return fmt.Errorf("chorus centre delay must be in (0, %g] ms: %f", MaxChorusCentreDelayMs, p.CentreDelayMs)
	case !feedbackOK(p.Feedback):
		return fmt.Errorf("chorus feedback must be in [-%.2f, %.2f]: %f", MaxFeedback, MaxFeedback, p.Feedback)
	case !inUnit(p.Mix):
		return fmt.Errorf("chorus mix must be in [0, 1]: %f", p.Mix)
	}

	return nil
}

func validSampleRate(name string, sampleRate float64) error {
	if !positiveFinite(sampleRate) {
		return fmt.Errorf("%s sample rate must be > 0 and finite: %f", name, sampleRate)
	}

	return nil
}

func positiveFinite(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

func feedbackOK(v float64) bool { return v >= -MaxFeedback && v <= MaxFeedback }
