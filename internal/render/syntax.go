package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"

	"github.com/TimelordUK/logpane/internal/source"
)

// SyntaxRenderer highlights line text with a chroma lexer, for streams
// that are structured (JSON logs, YAML dumps)
type SyntaxRenderer struct {
	lexerName   string
	syntaxTheme string
}

// NewSyntaxRenderer creates a renderer for the named lexer. Unknown lexer
// names fall back to plain text.
func NewSyntaxRenderer(lexer, theme string) *SyntaxRenderer {
	lexerName := "plaintext"
	if l := lexers.Get(lexer); l != nil {
		lexerName = l.Config().Name
	}
	if theme == "" {
		theme = "monokai"
	}

	return &SyntaxRenderer{
		lexerName:   lexerName,
		syntaxTheme: theme,
	}
}

// LexerName returns the resolved chroma lexer
func (r *SyntaxRenderer) LexerName() string {
	return r.lexerName
}

// Render applies syntax highlighting to a line
func (r *SyntaxRenderer) Render(line *source.Line) string {
	if line.Text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, line.Text, r.lexerName, "terminal16m", r.syntaxTheme); err != nil {
		return line.Text
	}

	// One log line must stay one row
	highlighted := strings.ReplaceAll(buf.String(), "\n", "")
	return strings.ReplaceAll(highlighted, "\r", "")
}
