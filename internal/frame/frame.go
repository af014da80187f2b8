// Package frame schedules work on the next render frame.
//
// Callbacks always run on the UI goroutine, one at a time, so code driven by
// a Scheduler never needs locks.
package frame

// Handle identifies a scheduled frame. None is never issued.
type Handle uint64

// None means no frame is pending
const None Handle = 0

// Scheduler runs callbacks on a later frame
type Scheduler interface {
	// Schedule arranges for fn to run on the next frame and returns a
	// handle that can cancel it
	Schedule(fn func()) Handle

	// Cancel stops a scheduled callback from running. Cancelling None, a
	// callback that already ran, or an unknown handle does nothing.
	Cancel(h Handle)
}
