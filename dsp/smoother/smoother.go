// Package smoother provides linear parameter ramps for click-free control
// changes on the audio thread.
package smoother

import (
	"fmt"
	"math"
)

// DefaultRampSeconds is the ramp time used for automatable controls.
const DefaultRampSeconds = 0.005

// Smoother ramps linearly from its current value to a target over a fixed
// number of samples. The zero value is a smoother with no ramp: every target
// is adopted immediately.
//
// A Smoother is owned by one goroutine; it has no internal synchronization.
type Smoother struct {
	current float64
	target  float64
	step    float64

	countdown  int
	rampLength int
}

// New returns a smoother prepared for sampleRate and rampSeconds, starting at
// value.
func New(sampleRate, rampSeconds, value float64) (*Smoother, error) {
	s := &Smoother{}
	if err := s.Reset(sampleRate, rampSeconds); err != nil {
		return nil, err
	}

	s.SetCurrentAndTargetValue(value)

	return s, nil
}

// Reset sets the ramp length to rampSeconds at sampleRate and ends any ramp
// in progress by snapping to the current target.
func (s *Smoother) Reset(sampleRate, rampSeconds float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("smoother: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if rampSeconds < 0 || math.IsNaN(rampSeconds) || math.IsInf(rampSeconds, 0) {
		return fmt.Errorf("smoother: ramp time must be >= 0 and finite: %f", rampSeconds)
	}

	s.rampLength = int(math.Floor(rampSeconds * sampleRate))
	s.SetCurrentAndTargetValue(s.target)

	return nil
}

// SetTargetValue starts a ramp from the current value towards v. Setting the
// target that is already being approached does not restart the ramp.
func (s *Smoother) SetTargetValue(v float64) {
	if v == s.target {
		return
	}

	if s.rampLength <= 0 {
		s.SetCurrentAndTargetValue(v)
		return
	}

	s.target = v
	s.countdown = s.rampLength
	s.step = (s.target - s.current) / float64(s.countdown)
}

// SetCurrentAndTargetValue jumps to v without ramping.
func (s *Smoother) SetCurrentAndTargetValue(v float64) {
	s.current = v
	s.target = v
	s.step = 0
	s.countdown = 0
}

// Next advances one sample and returns the new current value.
func (s *Smoother) Next() float64 {
	return s.Skip(1)
}

// Skip advances n samples without producing the intermediate values and
// returns the value reached. Once the ramp completes the current value is
// exactly the target.
func (s *Smoother) Skip(n int) float64 {
	if n <= 0 || s.countdown == 0 {
		return s.current
	}

	if n >= s.countdown {
		s.SetCurrentAndTargetValue(s.target)
		return s.current
	}

	s.current += s.step * float64(n)
	s.countdown -= n

	return s.current
}

// CurrentValue returns the value as of the last advance.
func (s *Smoother) CurrentValue() float64 { return s.current }

// TargetValue returns the value being ramped to.
func (s *Smoother) TargetValue() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *Smoother) IsSmoothing() bool { return s.countdown > 0 }

// RampLength returns the ramp length in samples.
func (s *Smoother) RampLength() int { return s.rampLength }

// Remaining returns how many samples are left in the current ramp.
func (s *Smoother) Remaining() int { return s.countdown }
