package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fxchain/dsp/core"
)

// Waveform selects what a [Source] produces.
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveSaw
	WaveNoise
	WaveSweep
	WaveImpulse
	numWaveforms
)

var waveformNames = [numWaveforms]string{"sine", "saw", "noise", "sweep", "impulse"}

func (w Waveform) String() string {
	if w >= numWaveforms {
		return fmt.Sprintf("Waveform(%d)", w)
	}

	return waveformNames[w]
}

// ParseWaveform returns the waveform with the given name, ignoring case.
func ParseWaveform(name string) (Waveform, error) {
	for i, n := range waveformNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Waveform(i), nil
		}
	}

	return 0, fmt.Errorf("signal: unknown waveform %q (want one of %s)", name, strings.Join(waveformNames[:], ", "))
}

// Generator creates deterministic signals from a shared format.
type Generator struct {
	format  core.Format
	seed    uint64
	sweepLo float64
	sweepHi float64
	sweepS  float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithSweep sets the exponential sweep range and the duration of one pass.
// Invalid values keep the defaults.
func WithSweep(loHz, hiHz, seconds float64) Option {
	return func(g *Generator) {
		if loHz > 0 && hiHz > loHz && seconds > 0 {
			g.sweepLo, g.sweepHi, g.sweepS = loHz, hiHz, seconds
		}
	}
}

// NewGenerator creates a signal generator for the given format.
func NewGenerator(format []core.FormatOption, opts ...Option) *Generator {
	g := &Generator{
		format:  core.ApplyFormatOptions(format...),
		seed:    1,
		sweepLo: 20,
		sweepHi: 20000,
		sweepS:  2,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Format returns the generator's format.
func (g *Generator) Format() core.Format {
	return g.format
}

// Generate returns samples of waveform w at freqHz. The sweep ignores freqHz.
func (g *Generator) Generate(w Waveform, freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}

	src, err := g.Source(w, freqHz, amplitude)
	if err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	src.Fill(out)

	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Generate(WaveSine, freqHz, amplitude, samples)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	return g.Generate(WaveNoise, 0, amplitude, samples)
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 || math.IsNaN(targetPeak) {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	out := make([]float64, len(data))

	peak := core.Peak(data)
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
