// Package engine provides the serial scheduler the sequencers run on. All
// sequencer state is owned by a single logical timeline: periodic ticks and
// one-shot delayed actions are executed one at a time, never concurrently,
// so sequencer code holds no locks of its own.
package engine

import "time"

// Handle is a cancellable scheduled action. Cancel is idempotent: cancelling
// an action that already ran, or cancelling twice, is a no-op.
type Handle interface {
	Cancel()
}

// Scheduler serializes work onto a single logical timeline.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// Submit runs fn on the scheduler's timeline as soon as possible.
	Submit(fn func())

	// After runs fn on the scheduler's timeline once, d from now.
	After(d time.Duration, fn func()) Handle

	// Every runs fn on the scheduler's timeline repeatedly, every d.
	Every(d time.Duration, fn func()) Handle
}
