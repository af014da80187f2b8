package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/logpane/internal/config"
	"github.com/TimelordUK/logpane/internal/filter"
	"github.com/TimelordUK/logpane/internal/frame"
	"github.com/TimelordUK/logpane/internal/logging"
	"github.com/TimelordUK/logpane/internal/logstore"
	"github.com/TimelordUK/logpane/internal/render"
	"github.com/TimelordUK/logpane/internal/source"
	"github.com/TimelordUK/logpane/internal/tail"
	"github.com/TimelordUK/logpane/internal/ui"
	"github.com/TimelordUK/logpane/pkg/logformat"
)

type sourceArg struct {
	kind source.Kind
	path string
}

func main() {
	configFlag := flag.String("config", "", "Config file (default "+config.GetConfigPath()+")")
	levelFlag := flag.String("level", "", "Initial level filter: warn, error")
	sourceFlag := flag.String("source", "", "Initial source filter: build, runtime")
	termFlag := flag.String("term", "", "Initial term filter")
	originFlag := flag.String("origin", "", "Show only lines from this resource (a log file's base name)")
	logFileFlag := flag.String("log-file", "", "Write diagnostic logs to this file")
	logLevelFlag := flag.String("log-level", "info", "Diagnostic log level: debug, info, warn, error")
	logJSONFlag := flag.Bool("log-json", false, "Write diagnostic logs as JSON")
	dumpFlag := flag.Bool("dump", false, "Print the filtered log and exit")
	writeConfigFlag := flag.Bool("write-config", false, "Write the default config to the config path and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logpane [flags] [build=]<file> [runtime=]<file> ...\n")
		fmt.Fprintf(os.Stderr, "  Bare files alternate build, runtime.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *writeConfigFlag {
		path := *configFlag
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := config.Save(config.DefaultConfig(), path); err != nil {
			fatal(err)
		}
		fmt.Println(path)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	args, err := parseSources(flag.Args())
	if err != nil {
		fatal(err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["level"] {
		cfg.Filter.Level = *levelFlag
	}
	if set["source"] {
		cfg.Filter.Source = *sourceFlag
	}
	if set["term"] {
		cfg.Filter.Term = *termFlag
	}
	if set["origin"] {
		cfg.Filter.Origin = *originFlag
	}

	logOut, closeLog, err := openLog(*logFileFlag)
	if err != nil {
		fatal(err)
	}
	defer closeLog()
	logger := logging.Init(logOut, *logJSONFlag, logging.ParseLevel(*logLevelFlag))

	store := logstore.New()
	detector := logformat.NewLevelDetector(&cfg.LogLevels)

	var tailers []*tail.Tailer
	for _, a := range args {
		t, err := tail.NewTailer(tail.TailerOptions{
			Path:     a.path,
			Kind:     a.kind,
			Store:    store,
			Detector: detector,
			Logger:   logger,
		})
		if err != nil {
			fatal(err)
		}
		defer t.Close()
		tailers = append(tailers, t)
	}

	if *dumpFlag {
		if err := dump(os.Stdout, cfg, store, tailers, logger); err != nil {
			fatal(err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, t := range tailers {
		wg.Add(1)
		go func(t *tail.Tailer) {
			defer wg.Done()
			if err := t.Run(ctx); err != nil {
				logger.Error("tailer stopped", "err", err)
			}
		}(t)
	}

	model := ui.NewModel(ui.ModelOptions{
		Config: cfg,
		Store:  store,
		Title:  title(args),
		Logger: logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	model.Close()
	cancel()
	wg.Wait()

	if runErr != nil {
		fatal(runErr)
	}
}

// parseSources reads "kind=path" arguments. A bare path takes the next
// kind in build, runtime order.
func parseSources(argv []string) ([]sourceArg, error) {
	var out []sourceArg
	next := source.KindBuild
	for _, arg := range argv {
		kind := next
		path := arg
		if prefix, rest, ok := strings.Cut(arg, "="); ok {
			kind = source.ParseKind(prefix)
			if kind == source.KindUnknown {
				return nil, fmt.Errorf("unknown source %q in %q", prefix, arg)
			}
			path = rest
		}
		if path == "" {
			return nil, fmt.Errorf("missing file in %q", arg)
		}
		out = append(out, sourceArg{kind: kind, path: path})
		if kind == source.KindBuild {
			next = source.KindRuntime
		} else {
			next = source.KindBuild
		}
	}
	return out, nil
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// dump reads every file once and prints what the pane would show
func dump(w io.Writer, cfg *config.Config, store *logstore.Store, tailers []*tail.Tailer, logger *slog.Logger) error {
	for _, t := range tailers {
		if _, err := t.Poll(); err != nil {
			return err
		}
	}

	sched := frame.NewManual()
	pane := ui.NewPane(ui.PaneOptions{
		Store:               store,
		Filter:              filter.Parse(cfg.Filter.Level, cfg.Filter.Source, cfg.Filter.Term).WithOrigin(cfg.Filter.Origin),
		Scheduler:           sched,
		RenderWindow:        cfg.Pane.RenderWindow,
		AutoscrollThreshold: cfg.Pane.AutoscrollThreshold,
		Renderer:            render.NewPlainRenderer(),
		Logger:              logger,
	})
	pane.Mount()
	defer pane.Unmount()
	frames := sched.Flush()
	logger.Debug("dump rendered", "frames", frames, "lines", len(pane.Elements()))

	for _, el := range pane.Elements() {
		gutter := " "
		if el.HasClass(render.ClassEndOfAlert) {
			gutter = "┘"
		}
		if _, err := fmt.Fprintf(w, "%6d %-7s%s%s\n", el.Line.GlobalIndex+1, el.Line.Kind, gutter, el.Content); err != nil {
			return err
		}
	}
	return nil
}

func title(args []sourceArg) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = filepath.Base(a.path)
	}
	return strings.Join(names, " + ")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
