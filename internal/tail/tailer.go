package tail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/TimelordUK/logpane/internal/logstore"
	"github.com/TimelordUK/logpane/internal/source"
	"github.com/TimelordUK/logpane/pkg/logformat"
)

// DefaultPollInterval is the fallback poll used alongside file events
const DefaultPollInterval = time.Second

// TailerOptions configures a Tailer
type TailerOptions struct {
	Path     string
	Kind     source.Kind
	Origin   string // defaults to the file's base name
	Store    *logstore.Store
	Detector *logformat.LevelDetector
	Logger   *slog.Logger

	PollInterval time.Duration // <= 0 uses DefaultPollInterval
	Debounce     time.Duration // <= 0 uses DefaultDebounce
}

// Tailer copies new lines from one file into a store. Each line gets a
// detected level; an alert line and the indented lines under it (stack
// traces, wrapped messages) become one alert run.
type Tailer struct {
	file     *File
	kind     source.Kind
	origin   string
	store    *logstore.Store
	detector *logformat.LevelDetector
	log      *slog.Logger

	pollInterval time.Duration
	debounce     time.Duration
}

// NewTailer opens the file. Nothing is read until Poll or Run.
func NewTailer(opts TailerOptions) (*Tailer, error) {
	if opts.Store == nil {
		return nil, errors.New("tailer needs a store")
	}
	if opts.Detector == nil {
		return nil, errors.New("tailer needs a level detector")
	}
	if opts.Origin == "" {
		opts.Origin = filepath.Base(opts.Path)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	f, err := OpenFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s log: %w", opts.Kind, err)
	}

	return &Tailer{
		file:         f,
		kind:         opts.Kind,
		origin:       opts.Origin,
		store:        opts.Store,
		detector:     opts.Detector,
		log:          opts.Logger.With("component", "tailer", "kind", opts.Kind.String(), "path", opts.Path),
		pollInterval: opts.PollInterval,
		debounce:     opts.Debounce,
	}, nil
}

// Kind returns the source kind lines are tagged with
func (t *Tailer) Kind() source.Kind {
	return t.kind
}

// Poll reads what was appended to the file since the last poll and adds it
// to the store. It returns the number of file lines consumed.
func (t *Tailer) Poll() (int, error) {
	lines, truncated, err := t.file.Refresh()
	if err != nil {
		return 0, err
	}
	if truncated {
		t.log.Info("file truncated, reading from start")
	}
	if len(lines) == 0 {
		return 0, nil
	}
	t.appendLines(lines)
	return len(lines), nil
}

func (t *Tailer) appendLines(lines []string) {
	for i := 0; i < len(lines); {
		level := t.detector.Detect(lines[i])
		j := i + 1
		if level.IsAlert() {
			for j < len(lines) && isContinuation(lines[j]) {
				j++
			}
		}
		t.store.Append(t.kind, t.origin, level, strings.Join(lines[i:j], "\n")+"\n")
		i = j
	}
}

// isContinuation reports whether a line belongs to the entry above it
func isContinuation(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

// Run polls once, then on every file change until ctx is cancelled.
// Without file events it still polls every PollInterval.
func (t *Tailer) Run(ctx context.Context) error {
	if _, err := t.Poll(); err != nil {
		t.log.Warn("initial read failed", "err", err)
	}

	var changes <-chan struct{}
	watcher, err := NewWatcher(t.file.Path(), t.debounce, t.log)
	if err != nil {
		t.log.Warn("file events unavailable, polling only", "err", err)
	} else {
		defer watcher.Close()
		changes = watcher.Changes()
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			t.poll()
		case <-ticker.C:
			t.poll()
		}
	}
}

func (t *Tailer) poll() {
	n, err := t.Poll()
	if err != nil {
		t.log.Warn("poll failed", "err", err)
		return
	}
	if n > 0 {
		t.log.Debug("read lines", "count", n, "total", t.file.Lines())
	}
}

// Close releases the file
func (t *Tailer) Close() error {
	return t.file.Close()
}
