package design

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fxchain/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Mode selects the response shape built by [Design].
type Mode int

const (
	ModePeak Mode = iota
	ModeBandpass
	ModeNotch
	ModeAllpass
)

// ModeNames lists the mode labels in ordinal order.
var ModeNames = []string{"Peak", "Bandpass", "Notch", "Allpass"}

// String returns the mode label.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(ModeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return ModeNames[m]
}

// ParseMode resolves a mode label, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for i, name := range ModeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}

	return 0, fmt.Errorf("design: unknown filter mode %q", s)
}

// Design builds coefficients for mode. gainDB only affects ModePeak.
func Design(mode Mode, freq, q, gainDB, sampleRate float64) biquad.Coefficients {
	switch mode {
	case ModePeak:
		return Peak(freq, gainDB, q, sampleRate)
	case ModeBandpass:
		return Bandpass(freq, q, sampleRate)
	case ModeNotch:
		return Notch(freq, q, sampleRate)
	case ModeAllpass:
		return Allpass(freq, q, sampleRate)
	default:
		return biquad.Coefficients{}
	}
}

// Peak designs a peaking-EQ biquad with gain in dB.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok || math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))
	a := math.Pow(10, gainDB/40)

	return normalizeBiquad(
		1+alpha*a, -2*cw, 1-alpha*a,
		1+alpha/a, -2*cw, 1-alpha/a,
	)
}

// Bandpass designs a constant 0 dB peak-gain bandpass biquad.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalizeBiquad(
		alpha, 0, -alpha,
		1+alpha, -2*cw, 1-alpha,
	)
}

// Notch designs a notch biquad centred at freq.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalizeBiquad(
		1, -2*cw, 1,
		1+alpha, -2*cw, 1-alpha,
	)
}

// Allpass designs an allpass biquad centred at freq.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalizeBiquad(
		1-alpha, -2*cw, 1+alpha,
		1+alpha, -2*cw, 1-alpha,
	)
}

func cosAlpha(w0, q float64) (cw, alpha float64) {
	return math.Cos(w0), math.Sin(w0) / (2 * q)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
