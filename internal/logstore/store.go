// Package logstore holds the append-only log that panes render from.
package logstore

import (
	"strings"
	"sync"

	"github.com/TimelordUK/logpane/internal/source"
)

// Store is an append-only, ordered log of lines from every source.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	lines []source.Line

	subs    map[int]chan struct{}
	nextSub int
}

// New creates an empty store
func New() *Store {
	return &Store{subs: make(map[int]chan struct{})}
}

// Append adds text to the log. Text may span several lines; a trailing
// newline does not produce an empty line. When level is warn or above the
// lines form one alert run.
func (s *Store) Append(kind source.Kind, origin string, level source.LogLevel, text string) {
	parts := splitLines(text)
	if len(parts) == 0 {
		return
	}

	s.mu.Lock()
	base := len(s.lines)
	for i, part := range parts {
		line := source.Line{
			Text:        part,
			Level:       level,
			Kind:        kind,
			Origin:      origin,
			GlobalIndex: base + i,
		}
		if level.IsAlert() {
			line.IsStartOfAlert = i == 0
			line.IsEndOfAlert = i == len(parts)-1
		}
		s.lines = append(s.lines, line)
	}
	s.mu.Unlock()

	s.notify()
}

// AppendLines adds info-level lines, one per argument. An empty argument
// is a blank line.
func (s *Store) AppendLines(kind source.Kind, origin string, lines ...string) {
	for _, l := range lines {
		s.Append(kind, origin, source.LevelInfo, l+"\n")
	}
}

// Snapshot returns the full ordered log. The returned slice shares memory
// with the store but is capacity-clipped, so callers may append to it
// without affecting the store.
func (s *Store) Snapshot() []source.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.lines)
	return s.lines[:n:n]
}

// Len returns the number of lines in the log
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Subscribe returns a channel that receives a signal after appends, and a
// function that cancels the subscription and closes the channel. Signals
// coalesce: a subscriber that has not drained the channel sees one pending
// signal, not many.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			// notify sends under the read lock, so nothing is sending now
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default: // already signaled
		}
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
