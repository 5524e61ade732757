// Package effectchain runs a fixed set of effect stages in a reorderable
// sequence over multi-channel audio.
//
// A [Processor] owns one mono [Pipeline] per channel. The control thread
// requests a new [Order] through a lock-free queue; the audio thread adopts
// the last valid request at the start of each [Processor.Process] call and
// acknowledges it on a second queue. Control values come from a
// [param.Store], are smoothed per control, and are pushed to every stage at
// sub-block granularity so modulation stays sample-accurate to within one
// sub-block.
//
// Process never allocates, locks or logs.
package effectchain
