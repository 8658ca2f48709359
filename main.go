// Command dirlist lists a directory with several strategies and times each one.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirlist/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Set by the linker
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dirlist: %v\n", err)
		os.Exit(1)
	}
}
