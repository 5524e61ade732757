package modulation

import "math"

const twoPi = 2 * math.Pi

// lfo is a sine oscillator whose phase can be advanced in bulk, so a
// bypassed effect keeps its modulation clock in step with the host.
type lfo struct {
	phase float64
	inc   float64
}

func (l *lfo) setRate(rateHz, sampleRate float64) {
	l.inc = twoPi * rateHz / sampleRate
}

func (l *lfo) value() float64 {
	return math.Sin(l.phase)
}

func (l *lfo) advance(n int) {
	l.phase += l.inc * float64(n)
	if l.phase >= twoPi {
		l.phase = math.Mod(l.phase, twoPi)
	}
}

func (l *lfo) reset() {
	l.phase = 0
}
