package frame

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is roughly one frame at 60fps
const DefaultInterval = 16 * time.Millisecond

// Msg is delivered to the program when a scheduled frame comes due.
// Pass it to Ticker.Dispatch.
type Msg struct {
	Handle Handle
}

// Ticker binds Scheduler to bubbletea ticks. Schedule queues a tick;
// the owning model returns Cmd() from Update so the ticks start, and
// routes each Msg back through Dispatch. All methods must be called from
// the model's Update.
type Ticker struct {
	interval time.Duration
	last     Handle
	pending  map[Handle]func()
	queued   []Handle
}

// NewTicker creates a ticker firing frames after interval
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		interval: interval,
		pending:  make(map[Handle]func()),
	}
}

// Schedule implements Scheduler
func (t *Ticker) Schedule(fn func()) Handle {
	t.last++
	h := t.last
	t.pending[h] = fn
	t.queued = append(t.queued, h)
	return h
}

// Cancel implements Scheduler
func (t *Ticker) Cancel(h Handle) {
	delete(t.pending, h)
}

// Cmd returns the ticks for frames scheduled since the last call,
// or nil if there are none
func (t *Ticker) Cmd() tea.Cmd {
	if len(t.queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(t.queued))
	for _, h := range t.queued {
		if _, ok := t.pending[h]; !ok {
			continue // cancelled before it was started
		}
		cmds = append(cmds, tick(t.interval, h))
	}
	t.queued = t.queued[:0]
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Dispatch runs the callback for msg if it is still scheduled.
// It returns false for cancelled or unknown frames.
func (t *Ticker) Dispatch(msg Msg) bool {
	fn, ok := t.pending[msg.Handle]
	if !ok {
		return false
	}
	delete(t.pending, msg.Handle)
	fn()
	return true
}

// Pending returns the number of frames scheduled but not yet run
func (t *Ticker) Pending() int {
	return len(t.pending)
}

func tick(d time.Duration, h Handle) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return Msg{Handle: h}
	})
}
