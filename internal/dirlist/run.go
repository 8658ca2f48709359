package dirlist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// startProgressReporter invokes hook(listed) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, l *Lister, hook func(int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(l.Listed())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// newRunID returns a random identifier for a run, or "" if none could be made.
func newRunID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}

	return id.String()
}

// Run lists opt.Path on the OS filesystem with every selected strategy.
// See RunWith.
func Run(ctx context.Context, opt Options, progressHook func(int64)) (*Report, error) {
	listerOpts := []ListerOption{WithBatchSize(opt.BatchSize)}

	if opt.Stderr != nil {
		listerOpts = append(listerOpts, WithErrorOutput(opt.Stderr))
	}

	if opt.Debug {
		listerOpts = append(listerOpts, WithDebug(errOutput(opt)))
	}

	return RunWith(ctx, NewOSLister(listerOpts...), opt, progressHook)
}

// RunWith lists opt.Path with lister, once per selected strategy and
// repetition, writing timestamped progress lines to opt.Log.
//
// A failed bulk read in the flat strategy aborts the run. The nested strategy
// never fails; it reports errors and yields no entries. A failing walk is
// recorded in its Result and the run continues.
//
// Progress updates are sent to progressHook if provided.
func RunWith(ctx context.Context, lister *Lister, opt Options, progressHook func(int64)) (*Report, error) {
	if opt.Path == "" {
		opt.Path = DefaultPath
	}

	if opt.Label == "" {
		opt.Label = filepath.ToSlash(opt.Path)
	}

	if len(opt.Strategies) == 0 {
		opt.Strategies = []Strategy{StrategyFlat, StrategyNested}
	}

	if opt.Repeat <= 0 {
		opt.Repeat = 1
	}

	now := opt.Now
	if now == nil {
		now = time.Now
	}

	log := newLogger(opt.Debug, errOutput(opt))
	printer := newTimedPrinter(opt.Log, now)

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, lister, progressHook, opt.ProgressInterval)

	report := &Report{
		RunID:   newRunID(),
		Path:    opt.Path,
		Results: make([]Result, 0, len(opt.Strategies)),
	}

	log.printf("run %s: path=%s strategies=%v repeat=%d\n", report.RunID, opt.Path, opt.Strategies, opt.Repeat)

	start := now()

	for _, strategy := range opt.Strategies {
		result := Result{Strategy: strategy}

		for i := 0; i < opt.Repeat; i++ {
			log.printf("strategy %s: iteration %d\n", strategy, i+1)

			iterStart := now()

			var err error

			switch strategy {
			case StrategyFlat:
				result.Entries, result.Phases, err = runFlat(ctx, lister, printer, now, opt.Path)
				if err != nil {
					return nil, err
				}
			case StrategyNested:
				result.Entries, result.Phases = runNested(ctx, lister, printer, now, opt.Label, opt.Path)
			case StrategyWalk:
				result.Entries, result.Phases, err = runWalk(ctx, lister, printer, now, opt.Label, opt.Path)
				if err != nil {
					fmt.Fprintf(errOutput(opt), "error: walk strategy: %v\n", err)

					result.Error = err.Error()
				}
			default:
				return nil, fmt.Errorf("unknown strategy %q", strategy)
			}

			result.Runs = append(result.Runs, now().Sub(iterStart))

			if result.Error != "" {
				break
			}
		}

		report.Results = append(report.Results, result)
	}

	report.Elapsed = now().Sub(start)

	return report, nil
}

// timed runs fn and returns how long it took according to now.
func timed(now func() time.Time, fn func()) time.Duration {
	start := now()

	fn()

	return now().Sub(start)
}

func runFlat(ctx context.Context, l *Lister, p timedPrinter, now func() time.Time, path string) ([]Entry, []Phase, error) {
	var (
		infos   []os.FileInfo
		entries []Entry
		err     error
	)

	p.println("File list start")

	readElapsed := timed(now, func() { infos, err = l.readDirFlat(path) })
	if err != nil {
		return nil, nil, err
	}

	p.println("file list end")
	p.printf("files found: %d", len(infos))
	p.println("Sorted by name")

	describeElapsed := timed(now, func() { entries, err = l.describeFlat(ctx, path, infos) })
	if err != nil {
		return nil, nil, err
	}

	p.printf("Sorted out: %s", describeLast(entries))

	return entries, []Phase{
		{Name: "file list", Count: len(infos), Elapsed: readElapsed},
		{Name: "sort and describe", Count: len(entries), Elapsed: describeElapsed},
	}, nil
}

func runNested(ctx context.Context, l *Lister, p timedPrinter, now func() time.Time, label, path string) ([]Entry, []Phase) {
	var entries []Entry

	p.println("list dir start")

	elapsed := timed(now, func() { entries = l.ListNested(ctx, label, path) })

	p.println("list dir end")
	p.printf("last: %s", describeLast(entries))

	return entries, []Phase{{Name: "list dir", Count: len(entries), Elapsed: elapsed}}
}

func runWalk(ctx context.Context, l *Lister, p timedPrinter, now func() time.Time, label, path string) ([]Entry, []Phase, error) {
	var (
		entries []Entry
		err     error
	)

	p.println("walk start")

	elapsed := timed(now, func() { entries, err = l.ListWalk(ctx, label, path) })
	if err != nil {
		return []Entry{}, nil, err
	}

	p.println("walk end")
	p.printf("walk last: %s", describeLast(entries))

	return entries, []Phase{{Name: "walk", Count: len(entries), Elapsed: elapsed}}, nil
}

func errOutput(opt Options) io.Writer {
	if opt.Stderr != nil {
		return opt.Stderr
	}

	return os.Stderr
}
