// Package buffer holds lines waiting to be materialized by a pane.
package buffer

import "github.com/TimelordUK/logpane/internal/source"

// Buffer is a pair of queues over one shared arena.
//
// The backward queue is arena[:back] and holds content older than anything
// mounted; it drains from its newest end so repeated prepends keep log
// order. The forward queue is arena[fwd:] and holds newly arrived content;
// it drains from its oldest end. arena[back:fwd] is already mounted.
type Buffer struct {
	arena []source.Line
	back  int
	fwd   int
}

// Seed replaces both queues with lines as the backward queue.
// The buffer takes ownership of lines.
func (b *Buffer) Seed(lines []source.Line) {
	b.arena = lines
	b.back = len(lines)
	b.fwd = len(lines)
}

// Append adds lines to the end of the forward queue
func (b *Buffer) Append(lines ...source.Line) {
	if len(lines) == 0 {
		return
	}
	if b.Empty() {
		// nothing pending, so the arena can be reused from the start
		b.arena = b.arena[:0]
		b.back, b.fwd = 0, 0
	}
	b.arena = append(b.arena, lines...)
}

// DrainBackward removes up to n of the newest lines from the backward
// queue. The result is in log order and is valid until the next call that
// modifies the buffer.
func (b *Buffer) DrainBackward(n int) []source.Line {
	n = min(max(n, 0), b.back)
	out := b.arena[b.back-n : b.back]
	b.back -= n
	return out
}

// DrainForward removes up to n of the oldest lines from the forward queue.
// The result is valid until the next call that modifies the buffer.
func (b *Buffer) DrainForward(n int) []source.Line {
	n = min(max(n, 0), b.ForwardLen())
	out := b.arena[b.fwd : b.fwd+n]
	b.fwd += n
	return out
}

// BackwardLen returns the number of lines waiting in the backward queue
func (b *Buffer) BackwardLen() int {
	return b.back
}

// ForwardLen returns the number of lines waiting in the forward queue
func (b *Buffer) ForwardLen() int {
	return len(b.arena) - b.fwd
}

// Empty returns true if neither queue holds lines
func (b *Buffer) Empty() bool {
	return b.BackwardLen() == 0 && b.ForwardLen() == 0
}

// Reset drops everything in both queues
func (b *Buffer) Reset() {
	b.arena = nil
	b.back, b.fwd = 0, 0
}
