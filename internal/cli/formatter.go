package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirlist/internal/dirlist"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dirlist.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs one entry per line, taken from the first strategy that
// produces labelled paths, falling back to the first result.
func PrintPaths(report *dirlist.Report, writer io.Writer) error {
	if len(report.Results) == 0 {
		return nil
	}

	result := report.Results[0]

	for _, r := range report.Results {
		if r.Strategy != dirlist.StrategyFlat && r.Error == "" {
			result = r

			break
		}
	}

	for _, e := range result.Entries {
		if _, err := fmt.Fprintln(writer, e.Name()); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *dirlist.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	for _, result := range report.Results {
		fmt.Fprintf(w, "\nStrategy %s:\t\t\t\n", result.Strategy)

		if result.Error != "" {
			fmt.Fprintf(w, "  error:\t%s\t\t\n", result.Error)

			continue
		}

		for _, e := range result.Entries {
			kind := "file"
			if e.IsDir {
				kind = "dir"
			}

			size := "-"
			if bytes, ok := e.SizeValue(); ok {
				size = humanize.IBytes(uint64(bytes)) //nolint:gosec // Sizes are never negative
			}

			mime := "-"
			if m, ok := e.MIMEValue(); ok {
				mime = m
			}

			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", e.Name(), kind, size, mime)
		}

		for _, p := range result.Phases {
			fmt.Fprintf(w, "  [%s]\t%d entries\t%v\t\n", p.Name, p.Count, p.Elapsed)
		}

		if len(result.Runs) > 1 {
			fmt.Fprintf(w, "  [runs]\t%d\t%v\t\n", len(result.Runs), result.Runs)
		}
	}

	fmt.Fprintln(w, "\nStats:\t\t\t")
	fmt.Fprintf(w, "Run:\t%s\t\t\n", report.RunID)
	fmt.Fprintf(w, "Path:\t%s\t\t\n", report.Path)
	fmt.Fprintf(w, "\nElapsed:\t%v\t\t\n", report.Elapsed)

	return w.Flush()
}
