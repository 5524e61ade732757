// Package effects provides reusable non-I/O DSP effect kernels.
//
// Subpackages:
//   - github.com/cwbudde/algo-fxchain/dsp/effects/modulation
//
// Effects remaining in this package:
//   - Overdrive: Normalised tanh saturation.
//
// Build with the fastmath tag to swap the transcendental functions for the
// approximations in github.com/meko-christian/algo-approx.
package effects
