package ui

import (
	"log/slog"
	"sort"

	"github.com/TimelordUK/logpane/internal/autoscroll"
	"github.com/TimelordUK/logpane/internal/buffer"
	"github.com/TimelordUK/logpane/internal/filter"
	"github.com/TimelordUK/logpane/internal/frame"
	"github.com/TimelordUK/logpane/internal/logstore"
	"github.com/TimelordUK/logpane/internal/render"
	"github.com/TimelordUK/logpane/internal/source"
	"github.com/TimelordUK/logpane/internal/view"
)

// DefaultRenderWindow is the number of lines materialized per frame
const DefaultRenderWindow = 250

// PaneOptions configures a Pane
type PaneOptions struct {
	Store     *logstore.Store
	Filter    filter.State
	Scheduler frame.Scheduler

	RenderWindow int // <= 0 uses DefaultRenderWindow
	// AutoscrollThreshold is the near-bottom distance in rows. The zero
	// value means exactly at the bottom; pass a negative value for
	// autoscroll.DefaultThreshold.
	AutoscrollThreshold int
	Renderer            render.Renderer
	Viewport            *view.Viewport
	Logger              *slog.Logger
}

// Pane renders the visible part of a log store incrementally.
//
// Visible lines wait in a two-queue buffer and are materialized at most
// renderWindow per queue per frame. Backward content (what was visible when
// the pane mounted or the filter changed) is prepended; forward content
// (lines appended to the store later) is appended. All methods must be
// called from one goroutine.
type Pane struct {
	store     *logstore.Store
	filter    filter.State
	scheduler frame.Scheduler
	renderer  render.Renderer
	viewport  *view.Viewport
	scroll    *autoscroll.Controller
	log       *slog.Logger

	renderWindow int
	buf          buffer.Buffer
	mounted      mountedElements
	renderFrame  frame.Handle

	// store length at the last read, to notice a replaced store
	lastSeen int
	// highest GlobalIndex queued or mounted, -1 for none. Visible lines
	// above it are new, including context lines that only became visible
	// when a later alert arrived.
	queuedThrough int

	changes     <-chan struct{}
	unsubscribe func()
	isMounted   bool
	disposed    bool
}

// NewPane creates a pane. Call Mount to start rendering.
func NewPane(opts PaneOptions) *Pane {
	if opts.Store == nil {
		opts.Store = logstore.New()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = frame.NewTicker(frame.DefaultInterval)
	}
	if opts.RenderWindow <= 0 {
		opts.RenderWindow = DefaultRenderWindow
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewPlainRenderer()
	}
	if opts.Viewport == nil {
		opts.Viewport = view.NewViewport(80, 24)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	p := &Pane{
		store:        opts.Store,
		filter:       opts.Filter,
		scheduler:    opts.Scheduler,
		renderer:     opts.Renderer,
		viewport:     opts.Viewport,
		log:          opts.Logger.With("component", "pane"),
		renderWindow: opts.RenderWindow,
	}
	p.scroll = autoscroll.New(opts.Scheduler, p.position, opts.AutoscrollThreshold)
	p.viewport.SetContent(&p.mounted)
	return p
}

// Mount subscribes to the store and seeds the backward queue with the
// visible lines. Nothing is materialized until the first frame.
func (p *Pane) Mount() {
	if p.isMounted || p.disposed {
		return
	}
	p.isMounted = true
	p.changes, p.unsubscribe = p.store.Subscribe()
	p.reseed()
}

// Unmount cancels pending frames and stops listening to the store.
// The pane cannot be mounted again.
func (p *Pane) Unmount() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.cancelRender()
	p.scroll.Stop()
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.log.Debug("unmounted", "mounted", p.mounted.Len())
}

// Changes returns the store's change signal for this pane, nil before Mount
func (p *Pane) Changes() <-chan struct{} {
	return p.changes
}

// OnLogUpdate handles an append notification from the store
func (p *Pane) OnLogUpdate() {
	if !p.isMounted || p.disposed {
		return
	}

	snapshot := p.store.Snapshot()
	if len(snapshot) < p.lastSeen {
		// the store was replaced underneath us; start over
		p.log.Warn("log store shrank, resetting", "was", p.lastSeen, "now", len(snapshot))
		p.reset()
		return
	}

	visible := filter.Apply(snapshot, p.filter)
	fresh := newAfter(visible, p.queuedThrough)
	p.lastSeen = len(snapshot)

	if len(fresh) == 0 {
		return
	}
	p.queuedThrough = fresh[len(fresh)-1].GlobalIndex
	p.buf.Append(fresh...)
	p.scheduleRender()
}

// SetFilter switches the pane to a new filter. Both queues and everything
// mounted are discarded and the backward queue is reseeded.
func (p *Pane) SetFilter(st filter.State) {
	if p.disposed || p.filter.Equal(st) {
		p.filter = st
		return
	}
	p.log.Debug("filter changed", "from", p.filter.String(), "to", st.String())
	p.filter = st
	if p.isMounted {
		p.reset()
	}
}

// Filter returns the active filter
func (p *Pane) Filter() filter.State {
	return p.filter
}

func (p *Pane) reset() {
	p.cancelRender()
	p.buf.Reset()
	p.mounted = nil
	p.viewport.GotoTop()
	p.reseed()
}

func (p *Pane) reseed() {
	snapshot := p.store.Snapshot()
	p.lastSeen = len(snapshot)
	visible := filter.Apply(snapshot, p.filter)
	p.queuedThrough = -1
	if len(visible) > 0 {
		p.queuedThrough = visible[len(visible)-1].GlobalIndex
	}
	p.buf.Seed(visible)
	p.log.Debug("seeded", "visible", len(visible), "log", len(snapshot), "filter", p.filter.String())
	p.scheduleRender()
}

// newAfter returns the suffix of visible with GlobalIndex > index
func newAfter(visible []source.Line, index int) []source.Line {
	i := sort.Search(len(visible), func(i int) bool {
		return visible[i].GlobalIndex > index
	})
	return visible[i:]
}

func (p *Pane) scheduleRender() {
	if p.renderFrame != frame.None || p.buf.Empty() {
		return
	}
	p.renderFrame = p.scheduler.Schedule(p.renderBuffer)
	if p.renderFrame == frame.None {
		panic("pane: frame scheduler refused to schedule")
	}
}

func (p *Pane) cancelRender() {
	if p.renderFrame != frame.None {
		p.scheduler.Cancel(p.renderFrame)
		p.renderFrame = frame.None
	}
}

// renderBuffer is the frame callback: it drains up to one window from each
// queue and mounts the result as one batch.
func (p *Pane) renderBuffer() {
	p.renderFrame = frame.None
	if p.disposed {
		return
	}

	backward := p.buf.DrainBackward(p.renderWindow)
	forward := p.buf.DrainForward(p.renderWindow)
	hadContent := p.mounted.Len() > 0

	if len(backward) > 0 {
		p.mounted = p.mounted.prepend(p.materialize(backward))
	}
	if len(forward) > 0 {
		p.mounted = append(p.mounted, p.materialize(forward)...)
	}
	p.viewport.SetContent(&p.mounted)

	if p.scroll.Engaged() {
		p.viewport.GotoBottom()
	} else if hadContent && len(backward) > 0 {
		// keep the rows the user is reading in place
		p.viewport.ScrollDown(len(backward))
	}

	p.scheduleRender()
}

func (p *Pane) materialize(lines []source.Line) []render.Element {
	out := make([]render.Element, len(lines))
	for i, l := range lines {
		out[i] = render.Materialize(p.renderer, l)
	}
	return out
}

func (p *Pane) position() autoscroll.Position {
	return autoscroll.Position{
		Top:           p.viewport.CurrentLine(),
		Height:        p.viewport.Height(),
		ContentHeight: p.viewport.ContentHeight(),
	}
}

// OnScroll handles a scroll notification from the view
func (p *Pane) OnScroll() {
	if p.disposed {
		return
	}
	p.scroll.OnScroll()
}

// ScrollDown scrolls down n rows
func (p *Pane) ScrollDown(n int) {
	p.viewport.ScrollDown(n)
	p.OnScroll()
}

// ScrollUp scrolls up n rows
func (p *Pane) ScrollUp(n int) {
	p.viewport.ScrollUp(n)
	p.OnScroll()
}

// PageDown scrolls down one page
func (p *Pane) PageDown() {
	p.viewport.PageDown()
	p.OnScroll()
}

// PageUp scrolls up one page
func (p *Pane) PageUp() {
	p.viewport.PageUp()
	p.OnScroll()
}

// GotoTop scrolls to the first row
func (p *Pane) GotoTop() {
	p.viewport.GotoTop()
	p.OnScroll()
}

// GotoBottom scrolls to the last row
func (p *Pane) GotoBottom() {
	p.viewport.GotoBottom()
	p.OnScroll()
}

// SetSize resizes the view. A resize moves the bottom edge, so it counts as
// a scroll.
func (p *Pane) SetSize(width, height int) {
	p.viewport.SetSize(width, height)
	if p.scroll.Engaged() {
		p.viewport.GotoBottom()
	}
	p.OnScroll()
}

// Render returns the visible rows
func (p *Pane) Render() string {
	return p.viewport.Render()
}

// Viewport returns the pane's viewport
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// BackwardLen returns the number of lines waiting to be prepended
func (p *Pane) BackwardLen() int {
	return p.buf.BackwardLen()
}

// ForwardLen returns the number of lines waiting to be appended
func (p *Pane) ForwardLen() int {
	return p.buf.ForwardLen()
}

// RenderFrame returns the pending render frame, or frame.None when the
// buffer is fully drained
func (p *Pane) RenderFrame() frame.Handle {
	return p.renderFrame
}

// Autoscroll returns true while the pane follows new content
func (p *Pane) Autoscroll() bool {
	return p.scroll.Engaged()
}

// ScrollTop returns the top row recorded at the last scroll notification
func (p *Pane) ScrollTop() int {
	return p.scroll.ScrollTop()
}

// AutoscrollFrame returns the pending autoscroll re-engage frame
func (p *Pane) AutoscrollFrame() frame.Handle {
	return p.scroll.PendingFrame()
}

// Elements returns the materialized lines in display order
func (p *Pane) Elements() []render.Element {
	return p.mounted
}

// mountedElements is the materialized content, in display order
type mountedElements []render.Element

func (m *mountedElements) Len() int {
	return len(*m)
}

func (m *mountedElements) Elements(start, count int) []render.Element {
	els := *m
	if start < 0 || start >= len(els) {
		return nil
	}
	return els[start:min(start+count, len(els))]
}

func (m mountedElements) prepend(els []render.Element) mountedElements {
	out := make(mountedElements, 0, len(els)+len(m))
	out = append(out, els...)
	return append(out, m...)
}
