// Package response measures the magnitude response of an in-place block
// processor by driving it with a unit impulse and transforming the captured
// output.
//
// Time-varying stages (phaser, chorus) produce a snapshot of the response at
// the LFO phase the measurement starts at.
package response
