// Package modulation provides LFO-driven modulation effects.
//
// Included processors:
//   - Chorus: Modulated delay with feedback.
//   - Phaser: Allpass-cascade sweep around a centre frequency.
//
// Both keep their LFO running when bypassed ([Phaser.Advance],
// [Chorus.Track]) so that re-enabling them resumes mid-sweep.
package modulation
