package filter

import (
	"strings"

	"github.com/TimelordUK/logpane/internal/source"
)

// Level restricts the log to alert runs at or above a severity
type Level int

const (
	LevelNone Level = iota
	LevelWarn
	LevelError
)

// ParseLevel converts "warn" or "error" to a Level.
// Empty or unknown strings mean no restriction.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning", "w":
		return LevelWarn
	case "error", "err", "e":
		return LevelError
	default:
		return LevelNone
	}
}

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// threshold is the lowest line level that qualifies an alert run
func (l Level) threshold() source.LogLevel {
	switch l {
	case LevelWarn:
		return source.LevelWarn
	case LevelError:
		return source.LevelError
	default:
		return source.LevelUnknown
	}
}

// Source restricts the log to one stream
type Source int

const (
	SourceAll Source = iota
	SourceBuild
	SourceRuntime
)

// ParseSource converts "build" or "runtime" to a Source.
// Empty or unknown strings mean all sources.
func ParseSource(s string) Source {
	switch source.ParseKind(s) {
	case source.KindBuild:
		return SourceBuild
	case source.KindRuntime:
		return SourceRuntime
	default:
		return SourceAll
	}
}

func (s Source) String() string {
	switch s {
	case SourceBuild:
		return "build"
	case SourceRuntime:
		return "runtime"
	default:
		return ""
	}
}

func (s Source) matches(k source.Kind) bool {
	switch s {
	case SourceBuild:
		return k == source.KindBuild
	case SourceRuntime:
		return k == source.KindRuntime
	default:
		return true
	}
}

// Term is a search term. The zero Term means no term was supplied;
// EmptyTerm means an empty term was supplied. Neither restricts anything.
type Term struct {
	input    string
	supplied bool
}

// EmptyTerm is a supplied term with no text
var EmptyTerm = Term{supplied: true}

// NewTerm creates a term from user input
func NewTerm(input string) Term {
	if input == "" {
		return EmptyTerm
	}
	return Term{input: input, supplied: true}
}

// Input returns the raw term text
func (t Term) Input() string {
	return t.input
}

// Supplied reports whether a term was given at all, even an empty one
func (t Term) Supplied() bool {
	return t.supplied
}

// Active reports whether the term restricts lines
func (t Term) Active() bool {
	return t.input != ""
}

// Matches reports whether text passes the term. Matching is case sensitive.
func (t Term) Matches(text string) bool {
	return !t.Active() || strings.Contains(text, t.input)
}

// State is the full set of filters applied to a pane
type State struct {
	Level  Level
	Source Source
	Term   Term

	// Origin scopes the pane to one resource; empty is the all-log view
	Origin string
}

// Parse builds a State from loosely typed configuration values.
// Unrecognized values on any axis lift the restriction on that axis.
func Parse(level, src, term string) State {
	return State{
		Level:  ParseLevel(level),
		Source: ParseSource(src),
		Term:   NewTerm(term),
	}
}

// WithOrigin returns s scoped to one resource
func (s State) WithOrigin(origin string) State {
	s.Origin = origin
	return s
}

// IsFiltered returns true if any axis restricts lines
func (s State) IsFiltered() bool {
	return s.Level != LevelNone || s.Source != SourceAll || s.Term.Active() || s.Origin != ""
}

// Equal reports whether two states select the same lines
func (s State) Equal(o State) bool {
	return s.Level == o.Level && s.Source == o.Source && s.Term.input == o.Term.input &&
		s.Origin == o.Origin
}

func (s State) String() string {
	var parts []string
	if s.Origin != "" {
		parts = append(parts, "origin="+s.Origin)
	}
	if s.Source != SourceAll {
		parts = append(parts, "source="+s.Source.String())
	}
	if s.Level != LevelNone {
		parts = append(parts, "level="+s.Level.String())
	}
	if s.Term.Active() {
		parts = append(parts, "term="+s.Term.input)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}
