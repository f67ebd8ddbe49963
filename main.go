// Command sz reports which directories below a path consume the most space.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/sz/internal/cli"
)

// version is set at build time with -ldflags.
//
//nolint:gochecknoglobals // Build-time variable
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
