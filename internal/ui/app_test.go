package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/logpane/internal/config"
	"github.com/TimelordUK/logpane/internal/filter"
	"github.com/TimelordUK/logpane/internal/frame"
	"github.com/TimelordUK/logpane/internal/logstore"
	"github.com/TimelordUK/logpane/internal/source"
)

func newTestModel(t *testing.T, store *logstore.Store) (*Model, *frame.Manual) {
	t.Helper()
	sched := frame.NewManual()
	m := NewModel(ModelOptions{Store: store, Scheduler: sched, Title: "test"})
	t.Cleanup(func() { m.Close() })
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 12})
	sched.Flush()
	return m, sched
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// isQuit runs cmd and reports whether it, or any command batched with it,
// quits the program
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuit(c) {
				return true
			}
		}
	}
	return false
}

func TestModelWindowSize(t *testing.T) {
	m, _ := newTestModel(t, manyLines(50))
	if got := m.Pane().Viewport().Height(); got != 12-chromeHeight {
		t.Errorf("pane height = %d, want %d", got, 12-chromeHeight)
	}
	if rows := strings.Count(m.View(), "\n"); rows < 12-chromeHeight {
		t.Errorf("view has %d rows", rows)
	}
}

func TestModelFilterKeys(t *testing.T) {
	m, sched := newTestModel(t, buildLogAndRunLog(true))

	tests := []struct {
		key    string
		level  filter.Level
		source filter.Source
	}{
		{"3", filter.LevelNone, filter.SourceRuntime},
		{"e", filter.LevelError, filter.SourceRuntime},
		{"2", filter.LevelError, filter.SourceBuild},
		{"w", filter.LevelWarn, filter.SourceBuild},
		{"a", filter.LevelNone, filter.SourceBuild},
		{"1", filter.LevelNone, filter.SourceAll},
	}
	for _, tt := range tests {
		m.Update(runes(tt.key))
		st := m.Pane().Filter()
		if st.Level != tt.level || st.Source != tt.source {
			t.Errorf("after %q: filter = %s", tt.key, st)
		}
	}

	m.Update(runes("3"))
	sched.Flush()
	for _, el := range m.Pane().Elements() {
		if el.Line.Kind != source.KindRuntime {
			t.Fatalf("build line mounted under runtime filter: %q", el.Line.Text)
		}
	}
	if !strings.Contains(m.View(), "[source=runtime]") {
		t.Errorf("status line does not show the filter")
	}

	m.Update(runes("x"))
	if m.Pane().Filter().IsFiltered() {
		t.Errorf("clear left filter %s", m.Pane().Filter())
	}
}

func TestModelSearchFiltersLive(t *testing.T) {
	m, sched := newTestModel(t, buildLogAndRunLog(false))

	m.Update(runes("/"))
	if m.Mode() != ModeSearch {
		t.Fatal("expected search mode")
	}
	for _, r := range "line 5" {
		m.Update(runes(string(r)))
	}
	if got := m.Pane().Filter().Term.Input(); got != "line 5" {
		t.Errorf("term = %q", got)
	}
	sched.Flush()
	if len(m.Pane().Elements()) != 2 {
		t.Errorf("mounted %d, want 2", len(m.Pane().Elements()))
	}

	// keys are text while searching
	m.Update(runes("q"))
	if got := m.Pane().Filter().Term.Input(); got != "line 5q" {
		t.Errorf("term = %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Mode() != ModeNormal {
		t.Fatal("enter should leave search mode")
	}
	if got := m.Pane().Filter().Term.Input(); got != "line 5" {
		t.Errorf("committed term = %q", got)
	}
}

func TestModelSearchEscRestores(t *testing.T) {
	m, _ := newTestModel(t, buildLogAndRunLog(false))

	m.Update(runes("/"))
	m.Update(runes("pod"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.Mode() != ModeNormal {
		t.Fatal("esc should leave search mode")
	}
	if m.Pane().Filter().Term.Supplied() {
		t.Errorf("term = %q, want the term before searching", m.Pane().Filter().Term.Input())
	}
}

func TestModelLogUpdate(t *testing.T) {
	store := manyLines(5)
	m, _ := newTestModel(t, store)

	store.AppendLines(source.KindRuntime, "fe", "fresh")
	_, cmd := m.Update(logUpdateMsg{})
	if m.Pane().ForwardLen() != 1 {
		t.Errorf("ForwardLen = %d, want 1", m.Pane().ForwardLen())
	}
	if cmd == nil {
		t.Error("expected the model to keep waiting for updates")
	}
}

func TestModelFollowKey(t *testing.T) {
	m, sched := newTestModel(t, manyLines(100))

	m.Update(runes("G"))
	sched.Flush()
	if !m.Pane().Autoscroll() {
		t.Fatal("G should engage follow")
	}
	if !strings.Contains(m.View(), "FOLLOW") {
		t.Error("status line does not show follow")
	}

	m.Update(runes("b"))
	if m.Pane().Autoscroll() {
		t.Error("scrolling up should disengage")
	}
}

func TestModelMouseWheel(t *testing.T) {
	m, _ := newTestModel(t, manyLines(100))

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.Pane().Viewport().CurrentLine(); got != 3 {
		t.Errorf("CurrentLine = %d, want 3", got)
	}
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := m.Pane().Viewport().CurrentLine(); got != 0 {
		t.Errorf("CurrentLine = %d, want 0", got)
	}
}

func TestModelQuit(t *testing.T) {
	store := manyLines(5)
	m, sched := newTestModel(t, store)
	store.AppendLines(source.KindRuntime, "fe", "late")
	m.Update(logUpdateMsg{})
	if len(sched.Pending()) == 0 {
		t.Fatal("setup: expected a pending render frame")
	}
	_, cmd := m.Update(runes("q"))
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
	if len(sched.Pending()) != 0 {
		t.Errorf("pending after quit: %v", sched.Pending())
	}
}

func TestModelTickerFrames(t *testing.T) {
	m := NewModel(ModelOptions{Store: manyLines(10)})
	defer m.Close()

	if m.Init() == nil {
		t.Fatal("Init should return commands")
	}
	h := m.Pane().RenderFrame()
	if h == frame.None {
		t.Fatal("expected a render frame")
	}
	m.Update(frame.Msg{Handle: h})
	if len(m.Pane().Elements()) != 10 {
		t.Errorf("mounted %d, want 10", len(m.Pane().Elements()))
	}
}

func TestModelUsesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pane.RenderWindow = 3
	cfg.Filter.Source = "build"

	sched := frame.NewManual()
	m := NewModel(ModelOptions{Config: cfg, Store: buildLogAndRunLog(false), Scheduler: sched})
	defer m.Close()

	if m.Pane().Filter().Source != filter.SourceBuild {
		t.Errorf("initial filter = %s", m.Pane().Filter())
	}
	sched.Step()
	if len(m.Pane().Elements()) != 3 {
		t.Errorf("mounted %d after one frame, want 3", len(m.Pane().Elements()))
	}
}

func TestModelCtrlCQuitsWhileSearching(t *testing.T) {
	m, _ := newTestModel(t, manyLines(5))

	m.Update(runes("/"))
	m.Update(runes("q"))
	if m.Mode() != ModeSearch || m.Pane().Filter().Term.Input() != "q" {
		t.Fatal("q is text while searching")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("ctrl+c should quit from search mode")
	}
}

func TestModelStopsWaitingAfterClose(t *testing.T) {
	m, _ := newTestModel(t, manyLines(5))
	wait := m.waitForLogUpdate()
	if wait == nil {
		t.Fatal("expected a wait command while mounted")
	}
	m.Close()

	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()
	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("wait returned %T after close, want nil", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait blocked after close")
	}
}

func TestModelResourceViewSurvivesClear(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Filter.Origin = "vigoda"
	cfg.Filter.Level = "warn"

	sched := frame.NewManual()
	store := buildLogAndRunLog(true)
	store.AppendLines(source.KindRuntime, "other", "other line")
	m := NewModel(ModelOptions{Config: cfg, Store: store, Scheduler: sched})
	defer m.Close()

	m.Update(runes("x"))
	st := m.Pane().Filter()
	if st.Level != filter.LevelNone || st.Origin != "vigoda" {
		t.Errorf("after clear: filter = %s", st)
	}
	sched.Flush()
	if len(m.Pane().Elements()) != 42 {
		t.Errorf("mounted %d, want the 42 vigoda lines", len(m.Pane().Elements()))
	}
}
