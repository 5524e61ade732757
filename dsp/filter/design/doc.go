// Package design provides RBJ-style biquad coefficient designers for the
// general-purpose filter stage.
//
// Every designer returns zero [biquad.Coefficients] when its input cannot
// produce a usable filter (frequency outside (0, Nyquist), bad sample rate).
// Callers detect that with [biquad.Coefficients.Usable].
package design
