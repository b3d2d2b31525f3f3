package keel

import "sync/atomic"

// listenerIDCounter is the source of unique IDs for subscriptions.
// IDs are monotonically increasing and never reused, so removal by ID is
// unambiguous even for the same callback subscribed twice.
var listenerIDCounter uint64

// nextListenerID returns the next unique subscription ID.
func nextListenerID() uint64 {
	return atomic.AddUint64(&listenerIDCounter, 1)
}
