package frame

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestManualInvoke(t *testing.T) {
	m := NewManual()
	ran := 0
	h := m.Schedule(func() { ran++ })

	if h == None {
		t.Fatal("Schedule returned None")
	}
	if ran != 0 {
		t.Fatal("callback ran before Invoke")
	}
	if !m.Invoke(h) || ran != 1 {
		t.Fatalf("Invoke: ran = %d", ran)
	}
	if m.Invoke(h) {
		t.Error("second Invoke of the same handle should be a no-op")
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	ran := false
	h := m.Schedule(func() { ran = true })
	m.Cancel(h)
	m.Cancel(None)

	if m.Invoke(h) || ran {
		t.Error("cancelled callback ran")
	}
	if len(m.Pending()) != 0 {
		t.Errorf("Pending = %v", m.Pending())
	}
}

func TestManualStepDefersRescheduled(t *testing.T) {
	m := NewManual()
	count := 0
	var loop func()
	loop = func() {
		count++
		if count < 3 {
			m.Schedule(loop)
		}
	}
	m.Schedule(loop)

	if ran := m.Step(); ran != 1 || count != 1 {
		t.Fatalf("Step ran %d, count %d", ran, count)
	}
	if got := m.Flush(); got != 2 || count != 3 {
		t.Errorf("Flush ran %d, count %d", got, count)
	}
}

func TestManualPendingOrder(t *testing.T) {
	m := NewManual()
	a := m.Schedule(func() {})
	b := m.Schedule(func() {})
	c := m.Schedule(func() {})
	m.Cancel(b)

	got := m.Pending()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Pending = %v, want [%d %d]", got, a, c)
	}
}

func TestTickerDispatch(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	ran := 0
	h := tk.Schedule(func() { ran++ })

	if tk.Pending() != 1 {
		t.Fatalf("Pending = %d", tk.Pending())
	}
	if !tk.Dispatch(Msg{Handle: h}) || ran != 1 {
		t.Fatalf("Dispatch ran = %d", ran)
	}
	if tk.Dispatch(Msg{Handle: h}) {
		t.Error("dispatching a finished frame should be a no-op")
	}
}

func TestTickerCancel(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	ran := false
	h := tk.Schedule(func() { ran = true })
	tk.Cancel(h)

	if tk.Cmd() != nil {
		t.Error("cancelled frame should not produce a tick")
	}
	if tk.Dispatch(Msg{Handle: h}) || ran {
		t.Error("cancelled frame ran")
	}
}

func TestTickerCmdProducesFrameMsg(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	h := tk.Schedule(func() {})

	cmd := tk.Cmd()
	if cmd == nil {
		t.Fatal("Cmd returned nil with a queued frame")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		if len(batch) != 1 {
			t.Fatalf("batch has %d commands", len(batch))
		}
		msg = batch[0]()
	}
	got, ok := msg.(Msg)
	if !ok || got.Handle != h {
		t.Errorf("msg = %#v, want Msg{%d}", msg, h)
	}

	if tk.Cmd() != nil {
		t.Error("Cmd should be nil once the queue was drained")
	}
}

func TestTickerHandlesAreNeverNone(t *testing.T) {
	tk := NewTicker(0)
	for i := 0; i < 5; i++ {
		if h := tk.Schedule(func() {}); h == None {
			t.Fatal("Schedule issued None")
		}
	}
}
