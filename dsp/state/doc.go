// Package state persists the stage order and control values.
//
// The order has a compact binary form, one kind ordinal per slot, and a
// base64 text form for logs and the command line. A full [Snapshot] is
// msgpack-encoded behind a magic header and a length prefix.
package state
