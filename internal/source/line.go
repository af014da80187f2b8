package source

import "strings"

// LogLevel represents a log severity level
type LogLevel int

const (
	LevelUnknown LogLevel = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[LogLevel]string{
	LevelUnknown: "unknown",
	LevelTrace:   "trace",
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarn:    "warn",
	LevelError:   "error",
	LevelFatal:   "fatal",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// IsAlert reports whether lines at this level start an alert run
func (l LogLevel) IsAlert() bool {
	return l >= LevelWarn
}

// Kind identifies which stream a line came from
type Kind int

const (
	KindUnknown Kind = iota
	KindBuild
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// ParseKind maps "build" and "runtime" (plus a few aliases) to a Kind.
// Anything else is KindUnknown.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "build", "b":
		return KindBuild
	case "runtime", "run", "pod", "r":
		return KindRuntime
	default:
		return KindUnknown
	}
}

// Line is a single immutable log line as stored by the log store
type Line struct {
	Text   string
	Level  LogLevel
	Kind   Kind
	Origin string // resource or file the line was read from

	// Alert run boundaries. A one-line alert has both set.
	IsStartOfAlert bool
	IsEndOfAlert   bool

	GlobalIndex int // position in the full log
}
