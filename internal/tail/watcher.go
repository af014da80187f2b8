package tail

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of writes must settle before a change
// is signalled
const DefaultDebounce = 100 * time.Millisecond

// Watcher signals when a log file is written, created or truncated.
// It watches the parent directory so rotated and recreated files are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange chan struct{}
	done     chan struct{}
	log      *slog.Logger
}

// NewWatcher creates a watcher for path. A debounce <= 0 uses
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	watcher := &Watcher{
		watcher:  w,
		path:     path,
		debounce: debounce,
		onChange: make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      logger.With("component", "watcher", "path", path),
	}

	go watcher.loop()
	return watcher, nil
}

// Changes returns a channel that receives a signal when the file changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.onChange
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	base := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// reset the timer on each write
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case w.onChange <- struct{}{}:
				default: // already signaled
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}
