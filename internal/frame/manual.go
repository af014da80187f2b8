package frame

import "sort"

// Manual is a Scheduler whose frames only run when asked to.
// Tests use it to step rendering one frame at a time, and Flush gives
// synchronous rendering for non-interactive output.
type Manual struct {
	last    Handle
	pending map[Handle]func()
}

// NewManual creates an idle manual scheduler
func NewManual() *Manual {
	return &Manual{pending: make(map[Handle]func())}
}

// Schedule implements Scheduler
func (m *Manual) Schedule(fn func()) Handle {
	m.last++
	m.pending[m.last] = fn
	return m.last
}

// Cancel implements Scheduler
func (m *Manual) Cancel(h Handle) {
	delete(m.pending, h)
}

// Invoke runs the callback for h. It returns false if h is not pending.
func (m *Manual) Invoke(h Handle) bool {
	fn, ok := m.pending[h]
	if !ok {
		return false
	}
	delete(m.pending, h)
	fn()
	return true
}

// Pending returns the scheduled handles in the order they were issued
func (m *Manual) Pending() []Handle {
	handles := make([]Handle, 0, len(m.pending))
	for h := range m.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// Step runs every frame pending right now, oldest first. Frames scheduled
// by those callbacks wait for the next Step. It returns the number run.
func (m *Manual) Step() int {
	ran := 0
	for _, h := range m.Pending() {
		if m.Invoke(h) {
			ran++
		}
	}
	return ran
}

// Flush steps until nothing is pending and returns the number of frames run
func (m *Manual) Flush() int {
	total := 0
	for len(m.pending) > 0 {
		total += m.Step()
	}
	return total
}
