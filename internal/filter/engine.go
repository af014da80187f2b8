// Package filter selects the visible lines of a log.
package filter

import "github.com/TimelordUK/logpane/internal/source"

// PrologueLength is the number of context lines kept before each alert run
// when a level filter is active.
const PrologueLength = 5

// Apply returns the lines of log visible under st, in log order.
// The result is always a new slice; log is not modified.
func Apply(log []source.Line, st State) []source.Line {
	lines := log
	if st.Source != SourceAll || st.Origin != "" {
		lines = byStream(lines, st.Source, st.Origin)
	}
	if st.Level != LevelNone {
		lines = alertsWithPrologue(lines, st.Level.threshold())
	}

	out := make([]source.Line, 0, len(lines))
	for _, l := range lines {
		if st.Term.Matches(l.Text) {
			out = append(out, l)
		}
	}
	return out
}

// byStream keeps lines of one source kind and, when origin is set, one
// resource. Prologue lookback runs over what is left.
func byStream(lines []source.Line, s Source, origin string) []source.Line {
	var out []source.Line
	for _, l := range lines {
		if s.matches(l.Kind) && (origin == "" || l.Origin == origin) {
			out = append(out, l)
		}
	}
	return out
}

// alertsWithPrologue keeps every alert run whose severity reaches min,
// together with up to PrologueLength lines before it.
func alertsWithPrologue(lines []source.Line, min source.LogLevel) []source.Line {
	keep := make([]bool, len(lines))
	for i := 0; i < len(lines); {
		if !opensRun(lines[i]) {
			i++
			continue
		}
		end, severity := scanRun(lines, i)
		if severity >= min {
			for j := max(0, i-PrologueLength); j <= end; j++ {
				keep[j] = true
			}
		}
		i = end + 1
	}

	var out []source.Line
	for i, l := range lines {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

// opensRun reports whether a run starts at l. Unmarked lines at alert
// level count as one-line runs.
func opensRun(l source.Line) bool {
	return l.IsStartOfAlert || l.Level.IsAlert()
}

// scanRun finds the last index of the run starting at start and the
// highest level inside it. A run ends at its end marker, just before the
// next run start, or at the end of the log.
func scanRun(lines []source.Line, start int) (int, source.LogLevel) {
	severity := lines[start].Level
	if lines[start].IsEndOfAlert || !lines[start].IsStartOfAlert {
		return start, severity
	}
	for j := start + 1; j < len(lines); j++ {
		if lines[j].IsStartOfAlert {
			return j - 1, severity
		}
		severity = max(severity, lines[j].Level)
		if lines[j].IsEndOfAlert {
			return j, severity
		}
	}
	return len(lines) - 1, severity
}
