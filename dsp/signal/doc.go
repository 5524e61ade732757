// Package signal generates deterministic test and source signals, either as
// whole buffers or as an endless block [Source].
package signal
