package dirlist

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// Strategy names a listing strategy.
type Strategy string

const (
	// StrategyFlat reads the directory in bulk and sorts by name.
	StrategyFlat Strategy = "flat"
	// StrategyNested streams the directory handle and sorts by path.
	StrategyNested Strategy = "nested"
	// StrategyWalk enumerates one level with fastwalk.
	StrategyWalk Strategy = "walk"
)

// Strategies lists every supported strategy in run order.
//
//nolint:gochecknoglobals // Config constant
var Strategies = []Strategy{StrategyFlat, StrategyNested, StrategyWalk}

// DefaultPath is the directory listed when none is given.
const DefaultPath = "/var/www/public/svg/logos"

// Phase is one timed step of a strategy.
type Phase struct {
	// Name describes the step.
	Name string `json:"name"`
	// Count is the number of entries the step produced.
	Count int `json:"count"`
	// Elapsed is the time the step took.
	Elapsed time.Duration `json:"elapsed"`
}

// Result holds the outcome of one strategy.
type Result struct {
	// Strategy is the strategy that produced the entries.
	Strategy Strategy `json:"strategy"`
	// Entries is the sorted listing.
	Entries []Entry `json:"entries"`
	// Phases are the timed steps, in order.
	Phases []Phase `json:"phases"`
	// Runs are the elapsed times of every repetition.
	Runs []time.Duration `json:"runs"`
	// Error is set when the strategy failed.
	Error string `json:"error,omitempty"`
}

// Elapsed sums the phase durations.
func (r Result) Elapsed() time.Duration {
	var total time.Duration

	for _, p := range r.Phases {
		total += p.Elapsed
	}

	return total
}

// Report holds the results of a run.
type Report struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`
	// Path is the listed directory.
	Path string `json:"path"`
	// Results holds one result per strategy, in run order.
	Results []Result `json:"results"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// Result returns the result of strategy s, if it ran.
func (r *Report) Result(s Strategy) (Result, bool) {
	for _, res := range r.Results {
		if res.Strategy == s {
			return res, true
		}
	}

	return Result{}, false
}

// Options configures a run and CLI behavior.
type Options struct {
	// Path is the directory to list.
	Path string
	// Label is the parent prefix of nested and walk paths. Defaults to Path.
	Label string
	// Strategies selects the strategies to run, in order.
	Strategies []Strategy
	// Repeat is the number of times each strategy runs.
	Repeat int
	// BatchSize is the number of entries the nested strategy reads per call.
	BatchSize int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents the output format (log, table, json or paths).
	Output string
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool

	// Log receives the timestamped progress lines.
	Log io.Writer
	// Stderr receives recovered errors and debug output.
	Stderr io.Writer
	// Now is the clock used for timestamps and timings.
	Now func() time.Time
}

// ParseStrategies converts names to strategies, rejecting unknown ones.
// Each name may itself be a comma-separated list.
func ParseStrategies(names []string) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))

	for _, list := range names {
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			strategy := Strategy(strings.ToLower(name))
			if !slices.Contains(Strategies, strategy) {
				return nil, fmt.Errorf("invalid strategy %q: must be one of %v", name, Strategies)
			}

			strategies = append(strategies, strategy)
		}
	}

	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategy selected: must be one of %v", Strategies)
	}

	return strategies, nil
}
