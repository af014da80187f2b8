package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/logpane/internal/config"
)

type keyMap struct {
	Quit          key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Search        key.Binding
	LevelWarn     key.Binding
	LevelError    key.Binding
	LevelAll      key.Binding
	SourceAll     key.Binding
	SourceBuild   key.Binding
	SourceRuntime key.Binding
	ClearFilters  key.Binding
}

func binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

func newKeyMap(cfg config.KeybindingConfig) keyMap {
	return keyMap{
		Quit:          binding(cfg.Quit, "quit"),
		ScrollUp:      binding(cfg.ScrollUp, "up"),
		ScrollDown:    binding(cfg.ScrollDown, "down"),
		PageUp:        binding(cfg.PageUp, "page up"),
		PageDown:      binding(cfg.PageDown, "page down"),
		Top:           binding(cfg.Top, "top"),
		Bottom:        binding(cfg.Bottom, "bottom/follow"),
		Search:        binding(cfg.Search, "search"),
		LevelWarn:     binding(cfg.LevelWarn, "warnings"),
		LevelError:    binding(cfg.LevelError, "errors"),
		LevelAll:      binding(cfg.LevelAll, "all levels"),
		SourceAll:     binding(cfg.SourceAll, "all sources"),
		SourceBuild:   binding(cfg.SourceBuild, "build"),
		SourceRuntime: binding(cfg.SourceRuntime, "runtime"),
		ClearFilters:  binding(cfg.ClearFilters, "clear filters"),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Bottom, k.Search, k.LevelWarn, k.LevelError, k.LevelAll,
		k.SourceAll, k.SourceBuild, k.SourceRuntime, k.ClearFilters, k.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Search, k.LevelWarn, k.LevelError, k.LevelAll},
		{k.SourceAll, k.SourceBuild, k.SourceRuntime, k.ClearFilters, k.Quit},
	}
}
