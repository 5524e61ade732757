package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fxchain/dsp/delay"
)

// Chorus is a single-voice modulated-delay chorus with feedback. The delay
// follows
//
//	d(t) = centreDelay + depth * 20ms * 0.5 * (1 + sin(phase))
//
// The delay line is sized for the largest centre delay and depth, so no
// control change reallocates.
type Chorus struct {
	sampleRate float64
	params     ChorusParams

	lfo  lfo
	line *delay.Line
}

// NewChorus returns a chorus running at sampleRate with params.
func NewChorus(sampleRate float64, params ChorusParams) (*Chorus, error) {
	if err := validSampleRate("chorus", sampleRate); err != nil {
		return nil, err
	}

	maxMs := MaxChorusCentreDelayMs + ChorusDepthRangeMs

	line, err := delay.New(delay.SamplesFor(maxMs/1000, sampleRate) + 4)
	if err != nil {
		return nil, fmt.Errorf("chorus delay line: %w", err)
	}

	c := &Chorus{sampleRate: sampleRate, line: line}
	if err := c.SetParams(params); err != nil {
		return nil, err
	}

	return c, nil
}

// SetParams replaces all controls at once. Invalid params leave the chorus
// unchanged.
func (c *Chorus) SetParams(params ChorusParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	c.params = params
	c.lfo.setRate(params.RateHz, c.sampleRate)

	return nil
}

// Params returns the current controls.
func (c *Chorus) Params() ChorusParams { return c.params }

// Reset clears the delay line and restarts the LFO.
func (c *Chorus) Reset() {
	c.line.Reset()
	c.lfo.reset()
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(x float64) float64 {
	wet := c.line.ReadFractional(c.delaySamples())
	c.line.Write(x + c.params.Feedback*wet)
	c.lfo.advance(1)

	return x*(1-c.params.Mix) + wet*c.params.Mix
}

// ProcessInPlace applies the chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Track writes buf into the delay line and advances the LFO without
// changing buf.
func (c *Chorus) Track(buf []float64) {
	for _, x := range buf {
		c.line.Write(x)
	}

	c.lfo.advance(len(buf))
}

// Phase returns the LFO phase in radians, in [0, 2*pi).
func (c *Chorus) Phase() float64 { return c.lfo.phase }

// SampleRate returns the sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

func (c *Chorus) delaySamples() float64 {
	swing := 0.5 * (1 + c.lfo.value())
	ms := c.params.CentreDelayMs + c.params.Depth*ChorusDepthRangeMs*swing

	return ms * 0.001 * c.sampleRate
}
