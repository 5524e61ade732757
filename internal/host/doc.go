// Package host runs a processing chain in real time. [Player] pulls audio
// through oto on the device callback goroutine, which plays the role of the
// audio thread, and [Keyboard] reads raw key presses on a control goroutine.
package host
