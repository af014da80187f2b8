package logformat

import (
	"strings"

	"github.com/TimelordUK/logpane/internal/config"
	"github.com/TimelordUK/logpane/internal/source"
)

// LevelDetector detects log levels from line content
type LevelDetector struct {
	rules []levelRule
}

type levelRule struct {
	level    source.LogLevel
	patterns []string
}

// NewLevelDetector creates a detector from config
func NewLevelDetector(cfg *config.LogLevelConfig) *LevelDetector {
	// Most severe first, so "ERROR: retrying after WARN" is an error
	return &LevelDetector{
		rules: []levelRule{
			{source.LevelFatal, cfg.FatalPatterns},
			{source.LevelError, cfg.ErrorPatterns},
			{source.LevelWarn, cfg.WarnPatterns},
			{source.LevelInfo, cfg.InfoPatterns},
			{source.LevelDebug, cfg.DebugPatterns},
			{source.LevelTrace, cfg.TracePatterns},
		},
	}
}

// Detect returns the log level for a line
func (d *LevelDetector) Detect(line string) source.LogLevel {
	for _, rule := range d.rules {
		for _, pattern := range rule.patterns {
			if pattern != "" && strings.Contains(line, pattern) {
				return rule.level
			}
		}
	}
	return source.LevelUnknown
}
