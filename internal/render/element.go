package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/logpane/internal/source"
)

// Marker classes carried by materialized lines
const (
	ClassLogLine    = "LogLine"
	ClassEndOfAlert = "is-endOfAlert"
)

// Element is a line that has been materialized for display
type Element struct {
	Line    source.Line
	Content string // styled row
}

// Materialize renders line into an Element. Terminal control sequences in
// the text are removed first, so a log line cannot move the cursor, clear
// the screen or retitle the window.
func Materialize(r Renderer, line source.Line) Element {
	line.Text = Sanitize(line.Text)
	return Element{Line: line, Content: r.Render(&line)}
}

// Sanitize strips ANSI escape sequences and other control characters from
// text. Tabs are kept.
func Sanitize(text string) string {
	clean := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, clean)
}

// Classes returns the marker classes of the element
func (e Element) Classes() []string {
	if e.Line.IsEndOfAlert {
		return []string{ClassLogLine, ClassEndOfAlert}
	}
	return []string{ClassLogLine}
}

// HasClass reports whether the element carries class
func (e Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}
