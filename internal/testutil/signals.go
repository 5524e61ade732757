// Package testutil holds signals and tolerance checks shared by tests.
package testutil

import (
	"math"
	"math/rand/v2"
	"slices"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude] from a
// fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, ^seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Planar returns independent copies of signals as planar channels.
func Planar(signals ...[]float64) [][]float64 {
	out := make([][]float64, len(signals))
	for i, s := range signals {
		out[i] = slices.Clone(s)
	}

	return out
}
