package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpane/internal/config"
	"github.com/TimelordUK/logpane/internal/filter"
	"github.com/TimelordUK/logpane/internal/frame"
	"github.com/TimelordUK/logpane/internal/logstore"
	"github.com/TimelordUK/logpane/internal/render"
	"github.com/TimelordUK/logpane/internal/view"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// reserved rows below the pane: status bar and help line
const chromeHeight = 2

// logUpdateMsg tells the model the store has new lines
type logUpdateMsg struct{}

// frameDriver is a Scheduler that needs the program loop to deliver frames
type frameDriver interface {
	frame.Scheduler
	Dispatch(frame.Msg) bool
	Cmd() tea.Cmd
}

// ModelOptions configures the application model
type ModelOptions struct {
	Config    *config.Config
	Store     *logstore.Store
	Title     string
	Logger    *slog.Logger
	Scheduler frame.Scheduler // nil uses a frame.Ticker at the configured interval
}

// Model is the main application model
type Model struct {
	pane      *Pane
	scheduler frame.Scheduler
	keys      keyMap
	help      help.Model
	termInput textinput.Model

	mode       Mode
	termBefore filter.Term // restored when search is cancelled
	width      int
	height     int
	title      string

	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
}

// NewModel creates the model and mounts its pane
func NewModel(opts ModelOptions) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Store == nil {
		opts.Store = logstore.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = frame.NewTicker(cfg.Pane.FrameInterval())
	}

	vp := view.NewViewport(80, 24-chromeHeight)
	vp.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	vp.SetLineNumberColor(cfg.Theme.LineNumbers)
	vp.SetAlertEndColor(cfg.Theme.AlertEnd)

	pane := NewPane(PaneOptions{
		Store:               opts.Store,
		Filter:              filter.Parse(cfg.Filter.Level, cfg.Filter.Source, cfg.Filter.Term).WithOrigin(cfg.Filter.Origin),
		Scheduler:           opts.Scheduler,
		RenderWindow:        cfg.Pane.RenderWindow,
		AutoscrollThreshold: cfg.Pane.AutoscrollThreshold,
		Renderer:            render.NewLogLevelRenderer(cfg),
		Viewport:            vp,
		Logger:              opts.Logger,
	})

	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 256

	m := &Model{
		pane:      pane,
		scheduler: opts.Scheduler,
		keys:      newKeyMap(cfg.Keybindings),
		help:      help.New(),
		termInput: ti,
		mode:      ModeNormal,
		width:     80,
		height:    24,
		title:     opts.Title,
		statusStyle: lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.StatusBar)).
			Foreground(lipgloss.Color(cfg.Theme.StatusBarText)),
		helpStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)),
	}

	pane.Mount()
	return m
}

// Pane returns the model's log pane
func (m *Model) Pane() *Pane {
	return m.pane
}

// Mode returns the current input mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForLogUpdate(), m.frameCmd())
}

func (m *Model) waitForLogUpdate() tea.Cmd {
	ch := m.pane.Changes()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return logUpdateMsg{}
	}
}

func (m *Model) frameCmd() tea.Cmd {
	if d, ok := m.scheduler.(frameDriver); ok {
		return d.Cmd()
	}
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.frameCmd())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frame.Msg:
		if d, ok := m.scheduler.(frameDriver); ok {
			d.Dispatch(msg)
		}
		return nil

	case logUpdateMsg:
		m.pane.OnLogUpdate()
		return m.waitForLogUpdate()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pane.SetSize(msg.Width, msg.Height-chromeHeight)
		return nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.pane.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.pane.ScrollDown(3)
		}
		return nil

	case tea.KeyMsg:
		if m.mode == ModeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.pane.Filter()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.ScrollDown):
		m.pane.ScrollDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.pane.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.pane.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.pane.PageUp()
	case key.Matches(msg, m.keys.Top):
		m.pane.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.pane.GotoBottom()

	case key.Matches(msg, m.keys.LevelWarn):
		st.Level = filter.LevelWarn
		m.pane.SetFilter(st)
	case key.Matches(msg, m.keys.LevelError):
		st.Level = filter.LevelError
		m.pane.SetFilter(st)
	case key.Matches(msg, m.keys.LevelAll):
		st.Level = filter.LevelNone
		m.pane.SetFilter(st)

	case key.Matches(msg, m.keys.SourceAll):
		st.Source = filter.SourceAll
		m.pane.SetFilter(st)
	case key.Matches(msg, m.keys.SourceBuild):
		st.Source = filter.SourceBuild
		m.pane.SetFilter(st)
	case key.Matches(msg, m.keys.SourceRuntime):
		st.Source = filter.SourceRuntime
		m.pane.SetFilter(st)

	case key.Matches(msg, m.keys.ClearFilters):
		// the resource scope is the pane's, not a filter the user toggles
		m.pane.SetFilter(filter.State{}.WithOrigin(st.Origin))

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.termBefore = st.Term
		m.termInput.SetValue(st.Term.Input())
		m.termInput.CursorEnd()
		m.termInput.Focus()
		return textinput.Blink
	}

	return nil
}

func (m *Model) quit() tea.Cmd {
	m.pane.Unmount()
	return tea.Quit
}

// handleSearchKey edits the term; the pane filters as the user types.
// Printable quit keys are text here, ctrl+c still quits.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return nil

	case tea.KeyEnter:
		m.mode = ModeNormal
		m.termInput.Blur()
		return nil

	case tea.KeyEsc:
		m.mode = ModeNormal
		m.termInput.Blur()
		m.setTerm(m.termBefore)
		return nil
	}

	var cmd tea.Cmd
	m.termInput, cmd = m.termInput.Update(msg)
	m.setTerm(filter.NewTerm(m.termInput.Value()))
	return cmd
}

func (m *Model) setTerm(term filter.Term) {
	st := m.pane.Filter()
	st.Term = term
	m.pane.SetFilter(st)
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.pane.Render())
	builder.WriteString("\n")

	var status string
	if m.mode == ModeSearch {
		status = "/" + m.termInput.View()
	} else {
		status = m.statusLine()
	}
	builder.WriteString(m.statusStyle.Width(m.width).Render(status))
	builder.WriteString("\n")

	builder.WriteString(m.helpStyle.Render(m.help.View(m.keys)))

	return builder.String()
}

func (m *Model) statusLine() string {
	p := m.pane
	vp := p.Viewport()

	parts := []string{}
	if m.title != "" {
		parts = append(parts, m.title)
	}
	parts = append(parts, "["+p.Filter().String()+"]")
	parts = append(parts, fmt.Sprintf("L%d/%d", vp.CurrentLine()+1, vp.ContentHeight()))
	parts = append(parts, fmt.Sprintf("%.0f%%", vp.PercentScrolled()))

	if pending := p.BackwardLen() + p.ForwardLen(); pending > 0 {
		parts = append(parts, fmt.Sprintf("rendering %d", pending))
	}
	if p.Autoscroll() {
		parts = append(parts, "FOLLOW")
	}

	return " " + strings.Join(parts, "  ")
}

// Close releases the pane
func (m *Model) Close() error {
	m.pane.Unmount()
	return nil
}
