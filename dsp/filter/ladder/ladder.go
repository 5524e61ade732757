package ladder

import (
	"fmt"
	"math"
)

const (
	defaultCutoffHz  = 1000.0
	defaultResonance = 0.0
	defaultDrive     = 1.0

	minCutoffHz = 1.0
	// MinDrive and MaxDrive bound the input drive.
	MinDrive = 1.0
	MaxDrive = 100.0

	// Pole split of each stage: b0 on the input, b1 on the previous input.
	poleB0 = 0.76923076923
	poleB1 = 0.23076923076

	outputTrim = 1.2
)

// Mode selects the tap mix.
type Mode int

const (
	ModeLPF12 Mode = iota
	ModeHPF12
	ModeBPF12
	ModeLPF24
	ModeHPF24
	ModeBPF24
	numModes
)

// ModeNames lists the mode labels in ordinal order.
var ModeNames = [numModes]string{"LPF12", "HPF12", "BPF12", "LPF24", "HPF24", "BPF24"}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return "unknown"
	}

	return ModeNames[m]
}

// Valid reports whether m is one of the six modes.
func (m Mode) Valid() bool { return m >= 0 && m < numModes }

// ParseMode returns the mode for a label such as "LPF24".
func ParseMode(s string) (Mode, error) {
	for i, name := range ModeNames {
		if name == s {
			return Mode(i), nil
		}
	}

	return 0, fmt.Errorf("ladder: unknown mode %q", s)
}

type modeMix struct {
	taps [5]float64
	comp float64
}

var modeMixes = [numModes]modeMix{
	ModeLPF12: {taps: [5]float64{0, 0, 1, 0, 0}, comp: 0.5},
	ModeHPF12: {taps: [5]float64{1, -2, 1, 0, 0}, comp: 0},
	ModeBPF12: {taps: [5]float64{0, 0, -1, 1, 0}, comp: 0.5},
	ModeLPF24: {taps: [5]float64{0, 0, 0, 0, 1}, comp: 0.5},
	ModeHPF24: {taps: [5]float64{1, -4, 6, -4, 1}, comp: 0},
	ModeBPF24: {taps: [5]float64{0, 0, 1, -2, 1}, comp: 0.5},
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	mode      Mode
	cutoffHz  float64
	resonance float64
	drive     float64
}

// WithMode selects the filter response.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !mode.Valid() {
			return fmt.Errorf("ladder: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithCutoffHz sets cutoff in Hz. Must be finite, >= 1 and below Nyquist.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
			return err
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets resonance in [0, 1].
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(resonance, 0, 1, "resonance"); err != nil {
			return err
		}

		cfg.resonance = resonance

		return nil
	}
}

// WithDrive sets input drive in [1, 100].
func WithDrive(drive float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(drive, MinDrive, MaxDrive, "drive"); err != nil {
			return err
		}

		cfg.drive = drive

		return nil
	}
}

// Filter is a mono multi-mode ladder filter.
type Filter struct {
	sampleRate float64

	mode      Mode
	cutoffHz  float64
	resonance float64
	drive     float64

	a1              float64
	b0, b1          float64
	scaledResonance float64
	gain            float64
	drive2          float64
	gain2           float64
	mix             modeMix

	state [5]float64
}

// New constructs a ladder filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("ladder: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := config{
		mode:      ModeLPF12,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
		drive:     defaultDrive,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{sampleRate: sampleRate}
	f.setMode(cfg.mode)
	f.setResonance(cfg.resonance)
	f.setDrive(cfg.drive)

	if err := f.SetCutoffHz(cfg.cutoffHz); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Mode returns the filter response.
func (f *Filter) Mode() Mode { return f.mode }

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns resonance in [0, 1].
func (f *Filter) Resonance() float64 { return f.resonance }

// Drive returns the input drive.
func (f *Filter) Drive() float64 { return f.drive }

// MaxCutoffHz returns the largest cutoff accepted at sampleRate.
func MaxCutoffHz(sampleRate float64) float64 {
	return math.Nextafter(0.5*sampleRate, 0)
}

// SetSampleRate updates the sample rate and clears state.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("ladder: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if f.cutoffHz >= 0.5*sampleRate {
		return fmt.Errorf("ladder: cutoff must be < Nyquist (%f Hz): %f", 0.5*sampleRate, f.cutoffHz)
	}

	f.sampleRate = sampleRate
	f.updateCutoff()
	f.Reset()

	return nil
}

// SetMode switches the tap mix. State is kept, so switching is click-free
// for related responses.
func (f *Filter) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("ladder: invalid mode: %d", mode)
	}

	f.setMode(mode)

	return nil
}

// SetCutoffHz updates the cutoff frequency.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
		return err
	}

	if cutoffHz >= 0.5*f.sampleRate {
		return fmt.Errorf("ladder: cutoff must be < Nyquist (%f Hz): %f", 0.5*f.sampleRate, cutoffHz)
	}

	f.cutoffHz = cutoffHz
	f.updateCutoff()

	return nil
}

// SetResonance updates resonance in [0, 1].
func (f *Filter) SetResonance(resonance float64) error {
	if err := validateFiniteRange(resonance, 0, 1, "resonance"); err != nil {
		return err
	}

	f.setResonance(resonance)

	return nil
}

// SetDrive updates input drive in [1, 100].
func (f *Filter) SetDrive(drive float64) error {
	if err := validateFiniteRange(drive, MinDrive, MaxDrive, "drive"); err != nil {
		return err
	}

	f.setDrive(drive)

	return nil
}

// Reset clears ladder state.
func (f *Filter) Reset() {
	f.state = [5]float64{}
}

// ProcessSample processes one sample.
func (f *Filter) ProcessSample(input float64) float64 {
	s := &f.state

	dx := f.gain * math.Tanh(f.drive*input)
	a := dx + f.scaledResonance*-4*(f.gain2*math.Tanh(f.drive2*s[4])-dx*f.mix.comp)

	b := f.b1*s[0] + f.a1*s[1] + f.b0*a
	c := f.b1*s[1] + f.a1*s[2] + f.b0*b
	d := f.b1*s[2] + f.a1*s[3] + f.b0*c
	e := f.b1*s[3] + f.a1*s[4] + f.b0*d

	s[0], s[1], s[2], s[3], s[4] = a, b, c, d, e

	t := &f.mix.taps
	out := outputTrim * (a*t[0] + b*t[1] + c*t[2] + d*t[3] + e*t[4])

	if !isFinite(out) {
		f.Reset()
		return 0
	}

	return out
}

// ProcessInPlace processes a mono buffer in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

func (f *Filter) setMode(mode Mode) {
	f.mode = mode
	f.mix = modeMixes[mode]
}

func (f *Filter) setResonance(resonance float64) {
	f.resonance = resonance
	f.scaledResonance = 0.1 + 0.9*resonance
}

func (f *Filter) setDrive(drive float64) {
	f.drive = drive
	f.gain = driveGain(drive)
	f.drive2 = drive*0.04 + 0.96
	f.gain2 = driveGain(f.drive2)
}

func (f *Filter) updateCutoff() {
	f.a1 = math.Exp(-2 * math.Pi * f.cutoffHz / f.sampleRate)
	g := 1 - f.a1
	f.b0 = g * poleB0
	f.b1 = g * poleB1
}

// driveGain compensates the loudness rise of the input saturator.
func driveGain(drive float64) float64 {
	return math.Pow(drive, -2.642)*0.6103 + 0.3903
}

func validateFiniteRange(value, minValue, maxValue float64, name string) error {
	if !isFinite(value) {
		return fmt.Errorf("ladder: %s must be finite: %v", name, value)
	}

	if value < minValue || value > maxValue {
		return fmt.Errorf("ladder: %s must be in [%g, %g]: %f", name, minValue, maxValue, value)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
