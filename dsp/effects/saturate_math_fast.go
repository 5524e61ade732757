//go:build fastmath

package effects

import (
	"github.com/meko-christian/algo-approx"
)

// tanhClip is where tanh is 1 to double precision.
const tanhClip = 20.0

// mathTanh computes tanh(x) using fast approximation.
// Uses the identity: tanh(x) = 1 - 2/(e^(2x) + 1)
func mathTanh(x float64) float64 {
	if x > tanhClip {
		return 1
	}

	if x < -tanhClip {
		return -1
	}

	return 1 - 2/(approx.FastExp(2*x)+1)
}
