package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	LogLevels   LogLevelConfig   `toml:"log_levels"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
	Pane        PaneConfig       `toml:"pane"`
	Filter      FilterConfig     `toml:"filter"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string         `toml:"name"`
	LineNumbers   string         `toml:"line_numbers"`
	StatusBar     string         `toml:"status_bar"`
	StatusBarText string         `toml:"status_bar_text"`
	AlertEnd      string         `toml:"alert_end"`
	BuildSource   string         `toml:"build_source"`
	RuntimeSource string         `toml:"runtime_source"`
	Levels        LogLevelColors `toml:"levels"`
}

// LogLevelColors defines colors for each log level
type LogLevelColors struct {
	Trace string `toml:"trace"`
	Debug string `toml:"debug"`
	Info  string `toml:"info"`
	Warn  string `toml:"warn"`
	Error string `toml:"error"`
	Fatal string `toml:"fatal"`
}

// LogLevelConfig defines log level detection patterns
type LogLevelConfig struct {
	TracePatterns []string `toml:"trace_patterns"`
	DebugPatterns []string `toml:"debug_patterns"`
	InfoPatterns  []string `toml:"info_patterns"`
	WarnPatterns  []string `toml:"warn_patterns"`
	ErrorPatterns []string `toml:"error_patterns"`
	FatalPatterns []string `toml:"fatal_patterns"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit          []string `toml:"quit"`
	ScrollUp      []string `toml:"scroll_up"`
	ScrollDown    []string `toml:"scroll_down"`
	PageUp        []string `toml:"page_up"`
	PageDown      []string `toml:"page_down"`
	Top           []string `toml:"top"`
	Bottom        []string `toml:"bottom"`
	Search        []string `toml:"search"`
	LevelWarn     []string `toml:"level_warn"`
	LevelError    []string `toml:"level_error"`
	LevelAll      []string `toml:"level_all"`
	SourceAll     []string `toml:"source_all"`
	SourceBuild   []string `toml:"source_build"`
	SourceRuntime []string `toml:"source_runtime"`
	ClearFilters  []string `toml:"clear_filters"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool   `toml:"show_line_numbers"`
	ShowSource      bool   `toml:"show_source"`
	RuntimeLexer    string `toml:"runtime_lexer"` // chroma lexer for runtime lines, empty for none
	SyntaxTheme     string `toml:"syntax_theme"`
}

// PaneConfig tunes incremental rendering
type PaneConfig struct {
	RenderWindow        int `toml:"render_window"`        // lines materialized per frame
	AutoscrollThreshold int `toml:"autoscroll_threshold"` // rows from bottom that still count as bottom
	FrameIntervalMs     int `toml:"frame_interval_ms"`
}

// FilterConfig holds the filters a pane starts with.
// Unknown values mean no restriction.
type FilterConfig struct {
	Level  string `toml:"level"`
	Source string `toml:"source"`
	Term   string `toml:"term"`
	Origin string `toml:"origin"` // resource name; empty shows every resource
}

const (
	defaultRenderWindow        = 250
	defaultAutoscrollThreshold = 2
	defaultFrameIntervalMs     = 16
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "subtle",
			LineNumbers:   "240", // Dark gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			AlertEnd:      "214", // Orange gutter
			BuildSource:   "33",  // Blue
			RuntimeSource: "35",  // Green
			Levels: LogLevelColors{
				Trace: "240",
				Debug: "244",
				Info:  "250",
				Warn:  "214",
				Error: "167",
				Fatal: "196",
			},
		},
		LogLevels: LogLevelConfig{
			TracePatterns: []string{"[TRC]", "[TRACE]", "TRACE", "TRC"},
			DebugPatterns: []string{"[DBG]", "[DEBUG]", "DEBUG", "DBG"},
			InfoPatterns:  []string{"[INF]", "[INFO]", "INFO", "INF"},
			WarnPatterns:  []string{"[WRN]", "[WARN]", "[WARNING]", "WARN", "WRN", "WARNING"},
			ErrorPatterns: []string{"[ERR]", "[ERROR]", "ERROR", "ERR"},
			FatalPatterns: []string{"[FTL]", "[FATAL]", "FATAL", "FTL", "[CRIT]", "CRITICAL"},
		},
		Keybindings: KeybindingConfig{
			Quit:          []string{"q", "ctrl+c"},
			ScrollUp:      []string{"k", "up"},
			ScrollDown:    []string{"j", "down"},
			PageUp:        []string{"b", "pgup", "ctrl+u"},
			PageDown:      []string{"f", "pgdown", "ctrl+d", " "},
			Top:           []string{"g", "home"},
			Bottom:        []string{"G", "end"},
			Search:        []string{"/"},
			LevelWarn:     []string{"w"},
			LevelError:    []string{"e"},
			LevelAll:      []string{"a"},
			SourceAll:     []string{"1"},
			SourceBuild:   []string{"2"},
			SourceRuntime: []string{"3"},
			ClearFilters:  []string{"x"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			ShowSource:      true,
			SyntaxTheme:     "monokai",
		},
		Pane: PaneConfig{
			RenderWindow:        defaultRenderWindow,
			AutoscrollThreshold: defaultAutoscrollThreshold,
			FrameIntervalMs:     defaultFrameIntervalMs,
		},
	}
}

// FrameInterval returns the delay between render frames
func (p PaneConfig) FrameInterval() time.Duration {
	return time.Duration(p.FrameIntervalMs) * time.Millisecond
}

// normalize replaces values that cannot work with defaults
func (c *Config) normalize() {
	if c.Pane.RenderWindow <= 0 {
		c.Pane.RenderWindow = defaultRenderWindow
	}
	if c.Pane.AutoscrollThreshold < 0 {
		c.Pane.AutoscrollThreshold = defaultAutoscrollThreshold
	}
	if c.Pane.FrameIntervalMs <= 0 {
		c.Pane.FrameIntervalMs = defaultFrameIntervalMs
	}
}

// Load loads config from path, or from the default location when path is
// empty. A missing default file falls back to defaults; a missing explicit
// file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()

	return cfg, nil
}

// Save writes cfg to path, or to the default location when path is empty
func Save(cfg *Config, path string) error {
	if path == "" {
		path = getConfigPath()
	}
	if path == "" {
		return nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logpane", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "logpane", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
