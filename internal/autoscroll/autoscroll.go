// Package autoscroll decides when a log view should stay pinned to its
// newest line.
package autoscroll

import "github.com/TimelordUK/logpane/internal/frame"

// DefaultThreshold is how many rows from the bottom still count as "at the
// bottom"
const DefaultThreshold = 2

// Position describes the viewport, in rows
type Position struct {
	Top           int // first visible row
	Height        int // visible rows
	ContentHeight int // total rows
}

// FromBottom returns the number of rows hidden below the viewport
func (p Position) FromBottom() int {
	return max(p.ContentHeight-(p.Top+p.Height), 0)
}

// PositionFunc reports the live viewport position
type PositionFunc func() Position

// Controller tracks scroll notifications and owns the autoscroll flag.
//
// Disengaging happens synchronously on the scroll that leaves the bottom.
// Re-engaging is deferred to the next frame and only happens if the view is
// still at the bottom then.
type Controller struct {
	scheduler frame.Scheduler
	position  PositionFunc
	threshold int

	engaged   bool
	scrollTop int
	pending   frame.Handle
}

// New creates a disengaged controller. A negative threshold uses
// DefaultThreshold.
func New(scheduler frame.Scheduler, position PositionFunc, threshold int) *Controller {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Controller{
		scheduler: scheduler,
		position:  position,
		threshold: threshold,
	}
}

// OnScroll handles a scroll notification
func (c *Controller) OnScroll() {
	pos := c.position()
	c.scrollTop = pos.Top
	nearBottom := c.nearBottom(pos)

	if c.engaged {
		if !nearBottom {
			c.engaged = false
		}
		return
	}

	if nearBottom && c.pending == frame.None {
		c.pending = c.scheduler.Schedule(c.recheck)
		if c.pending == frame.None {
			panic("autoscroll: frame scheduler refused to schedule")
		}
	}
}

func (c *Controller) recheck() {
	c.pending = frame.None
	if c.nearBottom(c.position()) {
		c.engaged = true
	}
}

func (c *Controller) nearBottom(pos Position) bool {
	return pos.FromBottom() <= c.threshold
}

// Engaged returns true while the view should follow new content
func (c *Controller) Engaged() bool {
	return c.engaged
}

// ScrollTop returns the top row recorded by the last scroll notification
func (c *Controller) ScrollTop() int {
	return c.scrollTop
}

// PendingFrame returns the handle of a scheduled re-engage check, or
// frame.None
func (c *Controller) PendingFrame() frame.Handle {
	return c.pending
}

// Threshold returns the near-bottom distance in rows
func (c *Controller) Threshold() int {
	return c.threshold
}

// Stop cancels any scheduled re-engage check
func (c *Controller) Stop() {
	if c.pending != frame.None {
		c.scheduler.Cancel(c.pending)
		c.pending = frame.None
	}
}
