package signal

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Source produces an endless waveform block by block. It does not allocate
// after construction.
type Source struct {
	wave Waveform
	amp  float64

	cycle float64 // position within the current period, [0, 1)
	inc   float64

	rng *rand.Rand

	sampleRate float64
	sweepLo    float64
	sweepRatio float64
	sweepPos   int
	sweepLen   int
	sweepPhase float64
}

// Source returns a streaming source for w. freqHz must be in (0, Nyquist)
// for periodic waveforms.
func (g *Generator) Source(w Waveform, freqHz, amplitude float64) (*Source, error) {
	if w >= numWaveforms {
		return nil, fmt.Errorf("signal: unknown waveform %d", w)
	}

	if err := g.format.Validate(); err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}

	if amplitude < 0 || math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
		return nil, fmt.Errorf("signal: amplitude must be >= 0: %f", amplitude)
	}

	sr := g.format.SampleRate
	s := &Source{wave: w, amp: amplitude, sampleRate: sr}

	switch w {
	case WaveNoise:
		s.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	case WaveSweep:
		hi := min(g.sweepHi, 0.45*sr)
		if hi <= g.sweepLo {
			return nil, fmt.Errorf("signal: sweep range %g..%g Hz does not fit sample rate %g", g.sweepLo, g.sweepHi, sr)
		}

		s.sweepLo = g.sweepLo
		s.sweepRatio = hi / g.sweepLo
		s.sweepLen = max(1, int(g.sweepS*sr))
	default:
		if freqHz <= 0 || freqHz >= sr/2 || math.IsNaN(freqHz) {
			return nil, fmt.Errorf("signal: %s frequency must be in (0, %g): %f", w, sr/2, freqHz)
		}

		s.inc = freqHz / sr
	}

	return s, nil
}

// Fill writes the next len(dst) samples.
func (s *Source) Fill(dst []float64) {
	switch s.wave {
	case WaveSine:
		for i := range dst {
			dst[i] = s.amp * math.Sin(2*math.Pi*s.cycle)
			s.step()
		}
	case WaveSaw:
		for i := range dst {
			dst[i] = s.amp * (2*s.cycle - 1)
			s.step()
		}
	case WaveImpulse:
		for i := range dst {
			dst[i] = 0
			if s.cycle < s.inc {
				dst[i] = s.amp
			}

			s.step()
		}
	case WaveNoise:
		for i := range dst {
			dst[i] = (s.rng.Float64()*2 - 1) * s.amp
		}
	case WaveSweep:
		for i := range dst {
			dst[i] = s.amp * math.Sin(s.sweepPhase)

			f := s.sweepLo * math.Pow(s.sweepRatio, float64(s.sweepPos)/float64(s.sweepLen))
			s.sweepPhase = math.Mod(s.sweepPhase+2*math.Pi*f/s.sampleRate, 2*math.Pi)

			s.sweepPos++
			if s.sweepPos >= s.sweepLen {
				s.sweepPos = 0
				s.sweepPhase = 0
			}
		}
	}
}

// Render fills the first channel and copies it to the others.
func (s *Source) Render(channels [][]float64) {
	if len(channels) == 0 {
		return
	}

	s.Fill(channels[0])

	for _, ch := range channels[1:] {
		copy(ch, channels[0])
	}
}

func (s *Source) step() {
	s.cycle += s.inc
	if s.cycle >= 1 {
		s.cycle -= math.Floor(s.cycle)
	}
}
