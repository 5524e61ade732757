package effectchain

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxchain/dsp/filter/biquad"
	"github.com/cwbudde/algo-fxchain/dsp/filter/design"
)

// ErrInvalidProcessSpec is returned by Prepare for a non-positive sample rate
// or block size.
var ErrInvalidProcessSpec = errors.New("effectchain: invalid process spec")

// ProcessSpec describes the stream a stage is prepared for.
type ProcessSpec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

func (s ProcessSpec) validate() error {
	if s.SampleRate <= 0 || math.IsNaN(s.SampleRate) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %f", ErrInvalidProcessSpec, s.SampleRate)
	}

	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: max block size %d", ErrInvalidProcessSpec, s.MaxBlockSize)
	}

	if s.NumChannels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidProcessSpec, s.NumChannels)
	}

	return nil
}

// Stage is one mono effect in a pipeline.
//
// Prepare allocates everything the stage needs. Update pushes the current
// control values and never clears state. Process runs the stage in place; a
// bypassed stage must leave block unchanged but may advance internal clocks.
// Reset clears transient audio state only.
type Stage interface {
	Prepare(spec ProcessSpec) error
	Update(v *Values)
	Process(block []float64, bypassed bool)
	Reset()
}

// CoefficientBuilder designs the general filter's biquad.
type CoefficientBuilder func(mode design.Mode, freqHz, q, gainDB, sampleRate float64) biquad.Coefficients

// Context carries construction-time dependencies to stage factories.
type Context struct {
	BuildCoefficients CoefficientBuilder
}

// Factory builds one Stage instance.
type Factory func(ctx Context) (Stage, error)
