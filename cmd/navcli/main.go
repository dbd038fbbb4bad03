// Command navcli is the operator CLI and debug server for the navigation
// core: a scenario runner, an ASCII grid renderer, an interactive REPL, and
// an HTTP introspection server. None of its packages are imported by
// pkg/navcore — the library has no CLI and reads no environment variables
// of its own, per section 6's library/operator-tooling boundary.
package main

import (
	"fmt"
	"os"

	"github.com/fieldforge/navcore/cmd/navcli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "navcli:", err)
		os.Exit(1)
	}
}
