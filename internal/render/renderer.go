package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpane/internal/config"
	"github.com/TimelordUK/logpane/internal/source"
)

// Renderer applies styling to lines
type Renderer interface {
	Render(line *source.Line) string
}

// LogLevelRenderer colors lines based on log level and prefixes the source
type LogLevelRenderer struct {
	styles     map[source.LogLevel]lipgloss.Style
	badges     map[source.Kind]string
	showSource bool
	syntax     map[source.Kind]Renderer
}

// NewLogLevelRenderer creates a renderer with config
func NewLogLevelRenderer(cfg *config.Config) *LogLevelRenderer {
	styles := map[source.LogLevel]lipgloss.Style{
		source.LevelUnknown: lipgloss.NewStyle(),
		source.LevelTrace:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Trace)),
		source.LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Debug)),
		source.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Info)),
		source.LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Warn)),
		source.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Error)),
		source.LevelFatal:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Fatal)),
	}

	buildBadge := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.BuildSource))
	runtimeBadge := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.RuntimeSource))

	r := &LogLevelRenderer{
		styles: styles,
		badges: map[source.Kind]string{
			source.KindBuild:   buildBadge.Render("build  │ "),
			source.KindRuntime: runtimeBadge.Render("runtime│ "),
		},
		showSource: cfg.Display.ShowSource,
		syntax:     make(map[source.Kind]Renderer),
	}

	// Only plain lines get syntax colors; alerts keep their level color
	if cfg.Display.RuntimeLexer != "" {
		r.syntax[source.KindRuntime] = NewSyntaxRenderer(cfg.Display.RuntimeLexer, cfg.Display.SyntaxTheme)
	}

	return r
}

// Render applies log level styling to a line
func (r *LogLevelRenderer) Render(line *source.Line) string {
	var content string
	if hl, ok := r.syntax[line.Kind]; ok && !line.Level.IsAlert() {
		content = hl.Render(line)
	} else {
		content = r.styles[line.Level].Render(line.Text)
	}

	if r.showSource {
		return r.badges[line.Kind] + content
	}
	return content
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line content as-is
func (r *PlainRenderer) Render(line *source.Line) string {
	return line.Text
}
