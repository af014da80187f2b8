package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpane/internal/render"
)

// ElementSource is the materialized content a viewport displays
type ElementSource interface {
	Len() int
	Elements(start, count int) []render.Element
}

// Viewport manages the visible portion of content
// It knows nothing about filters, buffers or log stores
// It only knows how to display rows from an ElementSource
type Viewport struct {
	content ElementSource

	// Dimensions
	width  int
	height int

	// Scroll position
	scrollOffset int

	// Styling
	lineNumberStyle lipgloss.Style
	alertEndStyle   lipgloss.Style
	emptyStyle      lipgloss.Style

	showLineNumbers bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          max(height, 1),
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		alertEndStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		emptyStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetContent sets the element source without moving the scroll position
func (v *Viewport) SetContent(content ElementSource) {
	v.content = content
	v.clampScroll()
}

// SetAlertEndColor sets the gutter color used for lines that end an alert
func (v *Viewport) SetAlertEndColor(color string) {
	v.alertEndStyle = v.alertEndStyle.Foreground(lipgloss.Color(color))
}

// SetLineNumberColor sets the line number color
func (v *Viewport) SetLineNumberColor(color string) {
	v.lineNumberStyle = v.lineNumberStyle.Foreground(lipgloss.Color(color))
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = max(height, 1)
	v.clampScroll()
}

// Height returns the number of visible rows
func (v *Viewport) Height() int {
	return v.height
}

// ContentHeight returns the total number of rows
func (v *Viewport) ContentHeight() int {
	if v.content == nil {
		return 0
	}
	return v.content.Len()
}

// ScrollDown scrolls down by n lines
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
}

// ScrollUp scrolls up by n lines
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(max(v.height-1, 1))
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(max(v.height-1, 1))
}

// GotoTop scrolls to the beginning
func (v *Viewport) GotoTop() {
	v.scrollOffset = 0
}

// GotoBottom scrolls to the end
func (v *Viewport) GotoBottom() {
	v.scrollOffset = v.maxScroll()
}

// GotoLine scrolls to a specific row
func (v *Viewport) GotoLine(line int) {
	v.scrollOffset = line
	v.clampScroll()
}

// CurrentLine returns the current top row
func (v *Viewport) CurrentLine() int {
	return v.scrollOffset
}

func (v *Viewport) maxScroll() int {
	return max(v.ContentHeight()-v.height, 0)
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	v.scrollOffset = min(max(v.scrollOffset, 0), v.maxScroll())
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	var elements []render.Element
	if v.content != nil {
		elements = v.content.Elements(v.scrollOffset, v.height)
	}

	var builder strings.Builder
	if len(elements) == 0 {
		builder.WriteString(v.emptyStyle.Render("No matching log lines"))
		for i := 1; i < v.height; i++ {
			builder.WriteString("\n")
		}
		return builder.String()
	}

	numWidth := 1
	if v.showLineNumbers {
		numWidth = len(fmt.Sprintf("%d", elements[len(elements)-1].Line.GlobalIndex+1))
	}

	for i, el := range elements {
		if i > 0 {
			builder.WriteString("\n")
		}

		if v.showLineNumbers {
			numStr := fmt.Sprintf("%*d", numWidth, el.Line.GlobalIndex+1)
			builder.WriteString(v.lineNumberStyle.Render(numStr))
		}

		// Alert ends get a gutter mark so prologue boundaries are easy to spot
		if el.HasClass(render.ClassEndOfAlert) {
			builder.WriteString(v.alertEndStyle.Render("┘"))
		} else {
			builder.WriteString(" ")
		}

		builder.WriteString(el.Content)
	}

	// Pad with empty lines if needed
	for i := len(elements); i < v.height; i++ {
		builder.WriteString("\n")
	}

	return builder.String()
}

// PercentScrolled returns how far through the content we are
func (v *Viewport) PercentScrolled() float64 {
	total := v.ContentHeight()
	if total <= v.height {
		return 100
	}
	return float64(v.scrollOffset) / float64(total-v.height) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}
