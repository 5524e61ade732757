// Package ladder provides a multi-mode transistor-ladder filter.
//
// The filter runs four one-pole stages with a saturated resonance feedback
// path and mixes the five stage taps into one of six responses:
//   - ModeLPF12 / ModeLPF24: 12 and 24 dB/oct low-pass.
//   - ModeHPF12 / ModeHPF24: 12 and 24 dB/oct high-pass.
//   - ModeBPF12 / ModeBPF24: 12 and 24 dB/oct band-pass.
//
// Cutoff, resonance and drive may change every block without clearing state.
package ladder
