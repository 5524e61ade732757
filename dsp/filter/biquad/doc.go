// Package biquad provides the second-order IIR section used by the
// general-purpose filter stage.
//
// A [Section] runs Direct Form II Transposed over [Coefficients] with a0
// normalized to 1. Block processing dispatches once, on first use, to a
// kernel chosen from the detected CPU features.
//
// Coefficient design lives in dsp/filter/design.
package biquad
