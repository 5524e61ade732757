// Package spsc provides a bounded, lock-free single-producer/single-consumer
// queue for handing value snapshots from a control thread to a real-time
// audio thread (and back).
//
// Exactly one goroutine may call [Queue.Push] and exactly one goroutine may
// call [Queue.Pop]. Neither call blocks or allocates. A push into a full
// queue fails and the pushed value is dropped; callers that only care about
// the most recent value drain the queue completely and keep the last one:
//
//	var latest Order
//	got := false
//	for v, ok := q.Pop(); ok; v, ok = q.Pop() {
//		latest, got = v, true
//	}
package spsc
