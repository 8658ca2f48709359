package dirlist

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TimeLayout is the layout of the timestamp prefixed to progress lines.
const TimeLayout = "15:04:05.000000"

// logger provides conditional debug output. Lines are serialised, so out
// need not be safe for concurrent use.
type logger struct {
	enabled bool
	out     io.Writer
	mu      *sync.Mutex
}

func newLogger(enabled bool, out io.Writer) logger {
	return logger{enabled: enabled && out != nil, out: out, mu: &sync.Mutex{}}
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if !l.enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.out, "[debug]: "+format, args...)
}

// timedPrinter writes "<local-time> <message>" lines.
type timedPrinter struct {
	out io.Writer
	now func() time.Time
}

func newTimedPrinter(out io.Writer, now func() time.Time) timedPrinter {
	if out == nil {
		out = io.Discard
	}

	if now == nil {
		now = time.Now
	}

	return timedPrinter{out: out, now: now}
}

func (p timedPrinter) println(args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.now().Local().Format(TimeLayout), fmt.Sprint(args...))
}

func (p timedPrinter) printf(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}
