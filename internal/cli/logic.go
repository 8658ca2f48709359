package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirlist/internal/dirlist"
)

func logic(ctx context.Context, options dirlist.Options, stdout, stderr io.Writer) error {
	enableProgress := options.Output != "json" &&
		options.Output != "paths" &&
		!options.Debug &&
		stderr == os.Stderr &&
		isatty.IsTerminal(os.Stderr.Fd())

	// The timestamped lines are the output in log mode and noise otherwise.
	if options.Output == "log" {
		options.Log = stdout
	}

	options.Stderr = stderr

	// Simple progress callback that prints directly to stderr
	var progressHook func(listed int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(listed int64) {
			fmt.Fprintf(stderr, "\r\033[2K%s\r", fmt.Sprintf("Listing… %d entries", listed))
		}
	}

	report, err := dirlist.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch options.Output {
	case "log":
		return nil
	case "json":
		return PrintJSON(report, stdout)
	case "table":
		return PrintTable(report, stdout)
	case "paths":
		return PrintPaths(report, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
