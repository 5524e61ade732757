package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxchain/dsp/core"
)

const (
	defaultFFTSize   = 8192
	defaultBlockSize = 512
	defaultTailFade  = 0.25

	// FloorDB is reported for bins with no energy.
	FloorDB = -240.0
)

// ErrInvalidConfig is returned for unusable measurement options.
var ErrInvalidConfig = errors.New("response: invalid config")

// Processor processes planar channels in place.
type Processor interface {
	Process(channels [][]float64)
}

// Option configures a measurement.
type Option func(*config)

type config struct {
	fftSize   int
	blockSize int
	tailFade  float64
}

// WithFFTSize sets the transform length, which is also the number of
// captured output samples. It must be a power of two >= 64.
func WithFFTSize(n int) Option {
	return func(c *config) { c.fftSize = n }
}

// WithBlockSize sets the block length the impulse is fed in.
func WithBlockSize(n int) Option {
	return func(c *config) { c.blockSize = n }
}

// WithTailFade sets the fraction of the capture, in [0, 1], that is faded out
// with a half Hann window before the transform.
func WithTailFade(fraction float64) Option {
	return func(c *config) { c.tailFade = fraction }
}

func (c config) validate() error {
	if c.fftSize < 64 || c.fftSize&(c.fftSize-1) != 0 {
		return fmt.Errorf("%w: fft size must be a power of two >= 64: %d", ErrInvalidConfig, c.fftSize)
	}

	if c.blockSize < 1 {
		return fmt.Errorf("%w: block size must be >= 1: %d", ErrInvalidConfig, c.blockSize)
	}

	if c.tailFade < 0 || c.tailFade > 1 || math.IsNaN(c.tailFade) {
		return fmt.Errorf("%w: tail fade must be in [0, 1]: %f", ErrInvalidConfig, c.tailFade)
	}

	return nil
}

// Result is a one-sided magnitude response, bins 0 through Nyquist.
type Result struct {
	SampleRate  float64
	FFTSize     int
	MagnitudeDB []float64
}

// BinFrequency returns the centre frequency of bin k in Hz.
func (r Result) BinFrequency(k int) float64 {
	return float64(k) * r.SampleRate / float64(r.FFTSize)
}

// At returns the magnitude in dB of the bin nearest freqHz.
func (r Result) At(freqHz float64) float64 {
	if len(r.MagnitudeDB) == 0 {
		return math.NaN()
	}

	k := int(math.Round(freqHz * float64(r.FFTSize) / r.SampleRate))
	k = min(max(k, 0), len(r.MagnitudeDB)-1)

	return r.MagnitudeDB[k]
}

// Deviation returns the largest absolute magnitude in dB over the bins in
// [loHz, hiHz].
func (r Result) Deviation(loHz, hiHz float64) float64 {
	var dev float64

	for k, db := range r.MagnitudeDB {
		f := r.BinFrequency(k)
		if f < loHz || f > hiHz {
			continue
		}

		dev = max(dev, math.Abs(db))
	}

	return dev
}

// Measure feeds a unit impulse followed by silence through the first channel
// of p and returns the magnitude response of the captured output. p must be
// prepared for at least one channel at sampleRate.
func Measure(p Processor, sampleRate float64, opts ...Option) (Result, error) {
	cfg := config{
		fftSize:   defaultFFTSize,
		blockSize: defaultBlockSize,
		tailFade:  defaultTailFade,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidConfig, sampleRate)
	}

	capture := make([]float64, cfg.fftSize)
	capture[0] = 1

	for start := 0; start < len(capture); start += cfg.blockSize {
		end := min(start+cfg.blockSize, len(capture))
		p.Process([][]float64{capture[start:end]})
	}

	if fade := int(cfg.tailFade * float64(cfg.fftSize)); fade > 0 {
		vecmath.MulBlockInPlace(capture[len(capture)-fade:], fadeOut(fade))
	}

	return Analyze(capture, sampleRate)
}

// Analyze returns the magnitude response of an impulse response. Its length
// sets the FFT size and must be a power of two.
func Analyze(ir []float64, sampleRate float64) (Result, error) {
	n := len(ir)
	if n < 2 || n&(n-1) != 0 {
		return Result{}, fmt.Errorf("%w: impulse response length must be a power of two: %d", ErrInvalidConfig, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Result{}, fmt.Errorf("response: fft plan: %w", err)
	}

	in := make([]complex128, n)
	for i, x := range ir {
		in[i] = complex(x, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("response: fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for k, m := range mag {
		mag[k] = max(core.LinearToDB(m), FloorDB)
	}

	return Result{SampleRate: sampleRate, FFTSize: n, MagnitudeDB: mag}, nil
}

// fadeOut returns the falling half of a Hann window of length n.
func fadeOut(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 + math.Cos(math.Pi*float64(i+1)/float64(n)))
	}

	return w
}
